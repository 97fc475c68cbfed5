package layout

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/console"
	"github.com/andyrewlee/reqtty/internal/keymap"
	"github.com/andyrewlee/reqtty/internal/theme"
	"github.com/andyrewlee/reqtty/internal/viewport"
)

type fakePane struct {
	events  []tea.Msg
	err     error
	stale   bool
	outputs int
	focused bool
	blurs   int
}

func (f *fakePane) Output(c *console.Console, v *viewport.Viewport) {
	f.outputs++
	f.stale = false
	v.Reset()
	v.WriteString(c, "x")
}

func (f *fakePane) OnEvent(msg tea.Msg) error {
	f.events = append(f.events, msg)
	return f.err
}

func (f *fakePane) NeedsReRender() bool { return f.stale }
func (f *fakePane) Focus()              { f.focused = true }
func (f *fakePane) Blur()               { f.focused = false; f.blurs++ }
func (f *fakePane) Invalidate()         { f.stale = true }

type textPane struct{ fakePane }

func (p *textPane) CursorPosition(v *viewport.Viewport) (int, int) {
	in := v.Inner()
	return in.X + 2, in.Y
}

var (
	keyLeft  = tea.KeyPressMsg{Code: tea.KeyLeft}
	keyRight = tea.KeyPressMsg{Code: tea.KeyRight}
	keyUp    = tea.KeyPressMsg{Code: tea.KeyUp}
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keyEnter = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyEsc   = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func newTestLayout() (*Layout, map[Region]*fakePane) {
	l := New(100, 30, 40, keymap.New(config.KeyMapConfig{}))
	panes := map[Region]*fakePane{}
	for _, r := range []Region{RegionList, RegionInput, RegionHints} {
		panes[r] = &fakePane{}
		l.Bind(r, panes[r])
	}
	req := &textPane{}
	panes[RegionRequest] = &req.fakePane
	l.Bind(RegionRequest, req)
	return l, panes
}

// checkInvariant returns an error if the focus states disagree with the
// navigation mode.
func checkInvariant(l *Layout) error {
	selected, active := 0, 0
	for r, v := range l.viewports {
		switch v.State() {
		case viewport.Selected:
			selected++
			if Region(r) != l.current {
				return fmt.Errorf("%s selected but current is %s", Region(r), l.current)
			}
		case viewport.Active:
			active++
			if Region(r) != l.current {
				return fmt.Errorf("%s active but current is %s", Region(r), l.current)
			}
		}
	}
	if l.navigation && (active != 0 || selected != 1) {
		return fmt.Errorf("navigation mode with %d active, %d selected", active, selected)
	}
	if !l.navigation && (active != 1 || selected != 0) {
		return fmt.Errorf("interaction mode with %d active, %d selected", active, selected)
	}
	return nil
}

func dispatch(t *testing.T, l *Layout, msg tea.Msg) Transition {
	t.Helper()
	tr, err := l.Dispatch(msg)
	if err != nil {
		t.Fatalf("Dispatch(%v): %v", msg, err)
	}
	if err := checkInvariant(l); err != nil {
		t.Fatalf("after %v: %v", msg, err)
	}
	return tr
}

func TestInitialState(t *testing.T) {
	l, _ := newTestLayout()
	if !l.NavigationMode() {
		t.Fatal("expected navigation mode")
	}
	if r, ok := l.Selected(); !ok || r != RegionList {
		t.Fatalf("Selected() = %s, %v", r, ok)
	}
	if err := checkInvariant(l); err != nil {
		t.Fatal(err)
	}
}

func TestRightEnterEscEsc(t *testing.T) {
	l, _ := newTestLayout()

	if tr := dispatch(t, l, keyRight); tr.Kind != TransitionMove || tr.To != RegionInput {
		t.Fatalf("Right: %+v", tr)
	}
	if tr := dispatch(t, l, keyEnter); tr.Kind != TransitionActivate {
		t.Fatalf("Enter: %+v", tr)
	}
	if l.NavigationMode() {
		t.Fatal("Enter should leave navigation mode")
	}
	if r, ok := l.Active(); !ok || r != RegionInput {
		t.Fatalf("Active() = %s, %v", r, ok)
	}

	if tr := dispatch(t, l, keyEsc); tr.Kind != TransitionDeactivate {
		t.Fatalf("first Esc: %+v", tr)
	}
	if !l.NavigationMode() {
		t.Fatal("first Esc should return to navigation mode")
	}
	if r, _ := l.Selected(); r != RegionInput {
		t.Fatalf("selected %s after Esc, want input", r)
	}

	if tr := dispatch(t, l, keyEsc); tr.Kind != TransitionQuit {
		t.Fatalf("second Esc: %+v, want quit", tr)
	}
}

func TestEscInInteractionModeNeverQuits(t *testing.T) {
	l, panes := newTestLayout()
	dispatch(t, l, keyEnter)
	tr := dispatch(t, l, keyEsc)
	if tr.Kind == TransitionQuit {
		t.Fatal("Esc while active must not quit")
	}
	if len(panes[RegionList].events) != 0 {
		t.Fatal("Esc must not reach the active pane")
	}
}

func TestAdjacency(t *testing.T) {
	tests := []struct {
		name  string
		keys  []tea.KeyPressMsg
		want  Region
		moved bool
	}{
		{name: "list left is a no-op", keys: []tea.KeyPressMsg{keyLeft}, want: RegionList},
		{name: "list up is a no-op", keys: []tea.KeyPressMsg{keyUp}, want: RegionList},
		{name: "list down is a no-op", keys: []tea.KeyPressMsg{keyDown}, want: RegionList},
		{name: "list right", keys: []tea.KeyPressMsg{keyRight}, want: RegionInput},
		{name: "input down", keys: []tea.KeyPressMsg{keyRight, keyDown}, want: RegionRequest},
		{name: "request up", keys: []tea.KeyPressMsg{keyRight, keyDown, keyUp}, want: RegionInput},
		{name: "request left", keys: []tea.KeyPressMsg{keyRight, keyDown, keyLeft}, want: RegionList},
		{name: "input left", keys: []tea.KeyPressMsg{keyRight, keyLeft}, want: RegionList},
		{name: "request down stays", keys: []tea.KeyPressMsg{keyRight, keyDown, keyDown}, want: RegionRequest},
		{name: "input right stays", keys: []tea.KeyPressMsg{keyRight, keyRight}, want: RegionInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLayout()
			for _, k := range tt.keys {
				dispatch(t, l, k)
			}
			if r, _ := l.Selected(); r != tt.want {
				t.Fatalf("selected %s, want %s", r, tt.want)
			}
		})
	}
}

func TestHintsNeverSelected(t *testing.T) {
	for _, from := range []Region{RegionList, RegionInput, RegionRequest} {
		for _, d := range []Direction{Left, Right, Up, Down} {
			if next, ok := Neighbor(from, d); ok && next == RegionHints {
				t.Fatalf("%s can reach the hint bar", from)
			}
		}
	}
}

func TestActiveReceivesEveryNonBackKey(t *testing.T) {
	l, panes := newTestLayout()
	dispatch(t, l, keyRight)
	dispatch(t, l, keyDown)
	dispatch(t, l, keyEnter)

	for _, k := range []tea.KeyPressMsg{keyUp, keyLeft, keyEnter, {Code: 'q', Text: "q"}} {
		if tr := dispatch(t, l, k); tr.Kind != TransitionNone {
			t.Fatalf("key %v changed focus: %+v", k, tr)
		}
	}
	dispatch(t, l, tea.PasteMsg{Content: "hi"})

	if got := len(panes[RegionRequest].events); got != 5 {
		t.Fatalf("request pane got %d events, want 5", got)
	}
	for _, r := range []Region{RegionList, RegionInput, RegionHints} {
		if len(panes[r].events) != 0 {
			t.Fatalf("%s pane received events while inactive", r)
		}
	}
}

func TestNavigationIgnoresNonKeyEvents(t *testing.T) {
	l, panes := newTestLayout()
	dispatch(t, l, tea.PasteMsg{Content: "x"})
	if len(panes[RegionList].events) != 0 {
		t.Fatal("navigation mode delivered a paste to a pane")
	}
}

func TestPaneErrorIsReturned(t *testing.T) {
	l, panes := newTestLayout()
	boom := errors.New("write failed")
	panes[RegionList].err = boom
	dispatch(t, l, keyEnter)

	_, err := l.Dispatch(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected pane error, got %v", err)
	}
	if l.NavigationMode() {
		t.Fatal("a pane error must not change focus")
	}
}

func TestFocusAndBlurHooks(t *testing.T) {
	l, panes := newTestLayout()
	dispatch(t, l, keyRight)
	dispatch(t, l, keyEnter)
	if !panes[RegionInput].focused {
		t.Fatal("activated pane should be focused")
	}
	dispatch(t, l, keyEsc)
	if panes[RegionInput].focused || panes[RegionInput].blurs != 1 {
		t.Fatal("deactivated pane should be blurred once")
	}
}

func TestCursorTarget(t *testing.T) {
	l, _ := newTestLayout()
	if _, _, ok := l.CursorTarget(); ok {
		t.Fatal("no cursor in navigation mode")
	}

	dispatch(t, l, keyEnter)
	if _, _, ok := l.CursorTarget(); ok {
		t.Fatal("list pane is not text-capable")
	}
	dispatch(t, l, keyEsc)

	dispatch(t, l, keyRight)
	dispatch(t, l, keyDown)
	dispatch(t, l, keyEnter)
	x, y, ok := l.CursorTarget()
	in := l.Viewport(RegionRequest).Inner()
	if !ok || x != in.X+2 || y != in.Y {
		t.Fatalf("CursorTarget() = (%d,%d,%v)", x, y, ok)
	}
}

func TestRenderBordersOnlyWhenStateChanges(t *testing.T) {
	l, _ := newTestLayout()
	var out bytes.Buffer
	c := console.New(&out)
	colors := theme.DefaultTheme().Colors

	if !l.RenderBorders(c, colors) {
		t.Fatal("first render should draw every border")
	}
	if l.RenderBorders(c, colors) {
		t.Fatal("second render without changes should draw nothing")
	}

	dispatch(t, l, keyRight)
	_ = c.Flush()
	out.Reset()
	if !l.RenderBorders(c, colors) {
		t.Fatal("selection change should redraw borders")
	}
	_ = c.Flush()
	if out.Len() == 0 {
		t.Fatal("expected border output")
	}

	l.Invalidate()
	if !l.RenderBorders(c, colors) {
		t.Fatal("Invalidate should force a border redraw")
	}
}

func TestInvalidateMarksPanesStale(t *testing.T) {
	l, panes := newTestLayout()
	c := console.New(&bytes.Buffer{})
	l.RenderPanes(c)

	l.Invalidate()
	for r, p := range panes {
		if !p.NeedsReRender() {
			t.Fatalf("region %v not stale after Invalidate", r)
		}
	}
	if !l.RenderPanes(c) {
		t.Fatal("RenderPanes drew nothing after Invalidate")
	}
}

func TestRenderPanesSkipsFreshPanes(t *testing.T) {
	l, panes := newTestLayout()
	c := console.New(&bytes.Buffer{})

	panes[RegionInput].stale = true
	if !l.RenderPanes(c) {
		t.Fatal("stale pane should render")
	}
	if panes[RegionInput].outputs != 1 || panes[RegionList].outputs != 0 {
		t.Fatal("only the stale pane should render")
	}
	before := c.Pending()
	if l.RenderPanes(c) {
		t.Fatal("nothing stale, nothing should render")
	}
	if c.Pending() != before {
		t.Fatal("idle render queued output")
	}
}

func TestRequestSizeMatchesInner(t *testing.T) {
	l, _ := newTestLayout()
	cols, rows := l.RequestSize()
	in := l.Viewport(RegionRequest).Inner()
	if cols != in.W || rows != in.H {
		t.Fatalf("RequestSize() = %dx%d, want %dx%d", cols, rows, in.W, in.H)
	}
}
