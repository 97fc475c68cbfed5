package app

import (
	"fmt"

	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/ui/layout"
	"github.com/andyrewlee/reqtty/internal/validation"
)

// loadSelection shows request i in the input and editor panes. A pane the
// user is typing into keeps its text.
func (a *App) loadSelection(i int) {
	if i < 0 {
		return
	}
	req, err := a.store.Get(i)
	if err != nil {
		logging.Warn("load request %d: %v", i, err)
		return
	}
	active, editing := a.layout.Active()
	if !editing || active != layout.RegionInput {
		a.input.SetValue(req.URL)
	}
	if a.editor != nil && (!editing || active != layout.RegionRequest) {
		a.editor.SetValue(req.Body)
	}
}

// writeBack stores what the user typed into region r once it stops being
// active.
func (a *App) writeBack(r layout.Region) {
	i := a.list.Selected()
	if i < 0 {
		return
	}
	req, err := a.store.Get(i)
	if err != nil {
		logging.Warn("write back request %d: %v", i, err)
		return
	}

	switch r {
	case layout.RegionInput:
		if req.URL == a.input.Value() {
			return
		}
		req.URL = a.input.Value()
	case layout.RegionRequest:
		if a.editor == nil || req.Body == a.editor.Value() {
			return
		}
		req.Body = a.editor.Value()
	default:
		return
	}

	if err := a.store.Update(i, req); err != nil {
		logging.Error("save request %d: %v", i, err)
		a.hints.SetStatus(fmt.Sprintf("save failed: %v", err))
		return
	}
	logging.Info("saved request %d (%s)", i, req.DisplayTitle())
	status := "saved " + req.DisplayTitle()
	if r == layout.RegionInput {
		if err := validation.ValidateURL(req.URL); err != nil {
			status += " (" + err.Error() + ")"
		}
	}
	a.hints.SetStatus(status)
	a.list.SetItems(a.store.Titles())
}

// reloadRequests picks up an external edit of the requests file.
func (a *App) reloadRequests() {
	changed, err := a.store.Reload()
	if err != nil {
		logging.Warn("reload requests: %v", err)
		a.hints.SetStatus(fmt.Sprintf("reload failed: %v", err))
		return
	}
	if !changed {
		return
	}
	logging.Info("requests file changed on disk; reloaded %d requests", a.store.Len())
	a.list.SetItems(a.store.Titles())
	a.loadSelection(a.list.Selected())
	a.hints.SetStatus("requests reloaded")
}

func (a *App) copyURL(i int) error {
	req, err := a.store.Get(i)
	if err != nil {
		return err
	}
	if req.URL == "" {
		a.hints.SetStatus("nothing to copy")
		return nil
	}
	if err := copyToClipboard(req.URL); err != nil {
		a.hints.SetStatus("clipboard unavailable")
		return err
	}
	a.hints.SetStatus("copied " + req.URL)
	return nil
}
