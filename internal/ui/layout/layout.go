// Package layout owns the screen regions, their focus states and the
// two-mode navigation state machine that decides which pane receives input.
//
// In navigation mode directional keys move the selection between regions
// and Enter activates the selected one. While a region is active every event
// except Back goes to its pane.
package layout

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/keymap"
	"github.com/andyrewlee/reqtty/internal/logging"
	"github.com/andyrewlee/reqtty/internal/pane"
	"github.com/andyrewlee/reqtty/internal/theme"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

// Direction is a navigation direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// adjacency maps a region and direction to its neighbor. The hint bar is not
// reachable.
var adjacency = map[Region]map[Direction]Region{
	RegionList:    {Right: RegionInput},
	RegionInput:   {Down: RegionRequest, Left: RegionList},
	RegionRequest: {Up: RegionInput, Left: RegionList},
}

// Neighbor returns the region next to r in direction d.
func Neighbor(r Region, d Direction) (Region, bool) {
	next, ok := adjacency[r][d]
	return next, ok
}

// TransitionKind classifies a focus change.
type TransitionKind int

const (
	TransitionNone TransitionKind = iota
	TransitionMove
	TransitionActivate
	TransitionDeactivate
	TransitionQuit
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "none"
	case TransitionMove:
		return "move"
	case TransitionActivate:
		return "activate"
	case TransitionDeactivate:
		return "deactivate"
	case TransitionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Transition reports what a dispatched event did to focus.
type Transition struct {
	Kind TransitionKind
	From Region
	To   Region
}

// Layout holds the viewports, the panes bound to them and the focus state.
type Layout struct {
	manager   *Manager
	viewports [regionCount]*viewport.Viewport
	panes     [regionCount]pane.Pane
	keymap    keymap.KeyMap

	navigation bool
	// current is the Selected region in navigation mode and the Active one
	// otherwise.
	current Region

	bordersDirty [regionCount]bool
}

// New lays out a width by height screen. It starts in navigation mode with
// the list selected.
func New(width, height, listWidth int, km keymap.KeyMap) *Layout {
	m := NewManager(listWidth)
	m.Resize(width, height)

	l := &Layout{
		manager:    m,
		keymap:     km,
		navigation: true,
		current:    RegionList,
	}
	for r := Region(0); r < regionCount; r++ {
		rect := m.Rect(r)
		l.viewports[r] = viewport.New(rect.X, rect.Y, rect.W, rect.H, true)
		l.bordersDirty[r] = true
	}
	l.viewports[RegionList].SetState(viewport.Selected)
	return l
}

// Bind attaches p to region r.
func (l *Layout) Bind(r Region, p pane.Pane) {
	l.panes[r] = p
}

// Pane returns the pane bound to r.
func (l *Layout) Pane(r Region) pane.Pane {
	return l.panes[r]
}

// Viewport returns the viewport of r.
func (l *Layout) Viewport(r Region) *viewport.Viewport {
	return l.viewports[r]
}

// NavigationMode reports whether directional keys move the selection.
func (l *Layout) NavigationMode() bool {
	return l.navigation
}

// Selected returns the selected region in navigation mode.
func (l *Layout) Selected() (Region, bool) {
	return l.current, l.navigation
}

// Active returns the active region outside navigation mode.
func (l *Layout) Active() (Region, bool) {
	return l.current, !l.navigation
}

// Dispatch routes one event. In navigation mode key presses drive the state
// machine; otherwise Back leaves the active pane and everything else goes to
// it. An error is returned only when the active pane failed to consume the
// event.
func (l *Layout) Dispatch(msg tea.Msg) (Transition, error) {
	if l.navigation {
		km, ok := msg.(tea.KeyPressMsg)
		if !ok {
			return Transition{}, nil
		}
		switch {
		case key.Matches(km, l.keymap.Back):
			return l.transition(TransitionQuit, l.current), nil
		case key.Matches(km, l.keymap.Focus):
			return l.transition(TransitionActivate, l.current), nil
		case key.Matches(km, l.keymap.MoveLeft):
			return l.move(Left), nil
		case key.Matches(km, l.keymap.MoveRight):
			return l.move(Right), nil
		case key.Matches(km, l.keymap.MoveUp):
			return l.move(Up), nil
		case key.Matches(km, l.keymap.MoveDown):
			return l.move(Down), nil
		}
		return Transition{}, nil
	}

	if km, ok := msg.(tea.KeyPressMsg); ok && key.Matches(km, l.keymap.Back) {
		return l.transition(TransitionDeactivate, l.current), nil
	}
	p := l.panes[l.current]
	if p == nil {
		return Transition{}, nil
	}
	if err := p.OnEvent(msg); err != nil {
		return Transition{}, fmt.Errorf("%s pane: %w", l.current, err)
	}
	return Transition{}, nil
}

func (l *Layout) move(d Direction) Transition {
	next, ok := Neighbor(l.current, d)
	if !ok {
		return Transition{}
	}
	return l.transition(TransitionMove, next)
}

// transition is the only place focus state changes. It keeps at most one
// viewport Selected in navigation mode, exactly one Active otherwise, and all
// others Inactive.
func (l *Layout) transition(kind TransitionKind, target Region) Transition {
	from := l.current
	t := Transition{Kind: kind, From: from, To: target}

	switch kind {
	case TransitionMove:
		if !l.navigation || target == from {
			return Transition{}
		}
		l.setState(from, viewport.Inactive)
		l.setState(target, viewport.Selected)
		l.current = target

	case TransitionActivate:
		if !l.navigation {
			return Transition{}
		}
		l.navigation = false
		l.setState(from, viewport.Active)
		if f, ok := l.panes[from].(pane.Focusable); ok {
			f.Focus()
		}

	case TransitionDeactivate:
		if l.navigation {
			return Transition{}
		}
		l.navigation = true
		l.setState(from, viewport.Selected)
		if f, ok := l.panes[from].(pane.Focusable); ok {
			f.Blur()
		}

	case TransitionQuit:
		if !l.navigation {
			return Transition{}
		}

	default:
		return Transition{}
	}

	logging.Debug("focus %s: %s -> %s", kind, t.From, t.To)
	return t
}

func (l *Layout) setState(r Region, s viewport.FocusState) {
	v := l.viewports[r]
	if v.State() != s {
		v.SetState(s)
		l.bordersDirty[r] = true
	}
}

// Invalidate forces every border, and every pane that supports it, to be
// redrawn on the next render.
func (l *Layout) Invalidate() {
	for r := range l.bordersDirty {
		l.bordersDirty[r] = true
	}
	for _, p := range l.panes {
		if inv, ok := p.(pane.Invalidator); ok {
			inv.Invalidate()
		}
	}
}

// RenderBorders redraws the borders whose focus state changed since the last
// call. It reports whether anything was drawn.
func (l *Layout) RenderBorders(c *console.Console, colors theme.Colors) bool {
	drawn := false
	for r, dirty := range l.bordersDirty {
		if !dirty {
			continue
		}
		l.viewports[r].RenderBorder(c, colors)
		l.bordersDirty[r] = false
		drawn = true
	}
	return drawn
}

// RenderPanes asks every stale pane to draw itself. It reports whether any
// pane drew.
func (l *Layout) RenderPanes(c *console.Console) bool {
	drawn := false
	for r, p := range l.panes {
		if p == nil || !p.NeedsReRender() {
			continue
		}
		p.Output(c, l.viewports[r])
		drawn = true
	}
	return drawn
}

// CursorTarget returns where the terminal cursor belongs: on the active pane
// when it is text-capable. ok is false when the cursor should be hidden.
func (l *Layout) CursorTarget() (x, y int, ok bool) {
	if l.navigation {
		return 0, 0, false
	}
	cp, isText := l.panes[l.current].(pane.Cursor)
	if !isText {
		return 0, 0, false
	}
	x, y = cp.CursorPosition(l.viewports[l.current])
	return x, y, true
}

// RequestSize returns the inner size of the request region, which is the
// window size a hosted child process should see.
func (l *Layout) RequestSize() (cols, rows int) {
	in := l.viewports[RegionRequest].Inner()
	return in.W, in.H
}
