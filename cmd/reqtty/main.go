package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andyrewlee/reqtty/internal/cli"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "reqtty: %v\n", err)
		os.Exit(1)
	}
}
