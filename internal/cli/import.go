package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/data"
	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/openapi"
	"github.com/andyrewlee/reqtty/internal/validation"
)

func newImportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|url>",
		Short: "Append every operation of an OpenAPI 3 document to the requests file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			opts.initLogging(cfg)
			defer logging.Close()
			return importRequests(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
		},
	}
}

func importRequests(ctx context.Context, cfg *config.Config, location string, w io.Writer) error {
	doc, err := openapi.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("import %s: %w", location, err)
	}
	requests, err := doc.Requests()
	if err != nil {
		return fmt.Errorf("import %s: %w", location, err)
	}

	store := data.NewStore(cfg.Paths.RequestsPath)
	if err := store.Load(); err != nil {
		return fmt.Errorf("load requests: %w", err)
	}
	if err := store.Add(requests...); err != nil {
		return fmt.Errorf("save requests: %w", err)
	}
	logging.Info("imported %d requests from %s", len(requests), location)
	for _, r := range requests {
		if err := validation.ValidateRequest(r); err != nil {
			fmt.Fprintf(w, "warning: %s: %s\n", r.DisplayTitle(), strings.ReplaceAll(err.Error(), "\n", "; "))
		}
	}
	fmt.Fprintf(w, "imported %d requests into %s\n", len(requests), store.Path())
	return nil
}
