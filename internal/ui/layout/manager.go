package layout

import "github.com/andyrewlee/reqtty/internal/viewport"

// Region names one of the fixed screen areas.
type Region int

const (
	RegionList Region = iota
	RegionInput
	RegionRequest
	RegionHints
	regionCount
)

func (r Region) String() string {
	switch r {
	case RegionList:
		return "list"
	case RegionInput:
		return "input"
	case RegionRequest:
		return "request"
	case RegionHints:
		return "hints"
	default:
		return "unknown"
	}
}

// Manager computes the region rectangles from the terminal size: the request
// list on the left, the URL input above the request pane on the right, and
// the hint bar across the bottom.
type Manager struct {
	totalWidth  int
	totalHeight int

	listWidth   int
	inputHeight int
	hintHeight  int

	// Configuration
	startupListWidth int
	minListWidth     int
	minRightWidth    int
}

// NewManager creates a layout manager with the given list column width.
func NewManager(listWidth int) *Manager {
	if listWidth <= 0 {
		listWidth = 40
	}
	return &Manager{
		startupListWidth: listWidth,
		minListWidth:     12,
		minRightWidth:    20,
		inputHeight:      3,
		hintHeight:       3,
	}
}

// Resize recalculates the layout for a width by height terminal.
func (m *Manager) Resize(width, height int) {
	m.totalWidth = max(width, 0)
	m.totalHeight = max(height, 0)

	m.listWidth = m.startupListWidth
	if m.totalWidth-m.listWidth < m.minRightWidth {
		// Give the right column room first, but never squeeze the list away.
		m.listWidth = max(m.totalWidth-m.minRightWidth, min(m.minListWidth, m.totalWidth/2))
	}
}

// Rect returns the outer rectangle of a region.
func (m *Manager) Rect(r Region) viewport.Rect {
	bodyHeight := max(m.totalHeight-m.hintHeight, 0)
	rightX := m.listWidth
	rightWidth := max(m.totalWidth-m.listWidth, 0)

	switch r {
	case RegionList:
		return viewport.Rect{X: 0, Y: 0, W: m.listWidth, H: bodyHeight}
	case RegionInput:
		return viewport.Rect{X: rightX, Y: 0, W: rightWidth, H: min(m.inputHeight, bodyHeight)}
	case RegionRequest:
		inputHeight := min(m.inputHeight, bodyHeight)
		return viewport.Rect{X: rightX, Y: inputHeight, W: rightWidth, H: max(bodyHeight-inputHeight, 0)}
	case RegionHints:
		return viewport.Rect{X: 0, Y: bodyHeight, W: m.totalWidth, H: min(m.hintHeight, m.totalHeight)}
	default:
		return viewport.Rect{}
	}
}

// ListWidth returns the outer width of the list column.
func (m *Manager) ListWidth() int {
	return m.listWidth
}

// Width returns the total width.
func (m *Manager) Width() int {
	return m.totalWidth
}

// Height returns the total height.
func (m *Manager) Height() int {
	return m.totalHeight
}
