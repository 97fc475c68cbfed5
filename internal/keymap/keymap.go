package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/andyrewlee/reqtty/internal/config"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionFocus     Action = "focus"
	ActionBack      Action = "back"

	ActionListUp   Action = "list_up"
	ActionListDown Action = "list_down"
	ActionCopyURL  Action = "copy_url"

	ActionPaste       Action = "paste"
	ActionToggleTheme Action = "toggle_theme"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

// KeyMap defines all keybindings for the application.
type KeyMap struct {
	// Navigation mode
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Focus     key.Binding
	Back      key.Binding

	// Request list
	ListUp   key.Binding
	ListDown key.Binding
	CopyURL  key.Binding

	Paste       key.Binding
	ToggleTheme key.Binding
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	return KeyMap{
		MoveLeft: bindingFromDef(cfg, bindingDef{
			action: ActionMoveLeft,
			keys:   []string{"left"},
			desc:   "move",
		}),
		MoveRight: bindingFromDef(cfg, bindingDef{
			action: ActionMoveRight,
			keys:   []string{"right"},
			desc:   "move",
		}),
		MoveUp: bindingFromDef(cfg, bindingDef{
			action: ActionMoveUp,
			keys:   []string{"up"},
			desc:   "move",
		}),
		MoveDown: bindingFromDef(cfg, bindingDef{
			action: ActionMoveDown,
			keys:   []string{"down"},
			desc:   "move",
		}),
		Focus: bindingFromDef(cfg, bindingDef{
			action: ActionFocus,
			keys:   []string{"enter"},
			desc:   "focus",
		}),
		Back: bindingFromDef(cfg, bindingDef{
			action: ActionBack,
			keys:   []string{"esc"},
			desc:   "back/quit",
		}),

		ListUp: bindingFromDef(cfg, bindingDef{
			action: ActionListUp,
			keys:   []string{"up", "k"},
			desc:   "previous request",
		}),
		ListDown: bindingFromDef(cfg, bindingDef{
			action: ActionListDown,
			keys:   []string{"down", "j"},
			desc:   "next request",
		}),
		CopyURL: bindingFromDef(cfg, bindingDef{
			action: ActionCopyURL,
			keys:   []string{"y"},
			desc:   "copy url",
		}),

		Paste: bindingFromDef(cfg, bindingDef{
			action: ActionPaste,
			keys:   []string{"ctrl+v"},
			desc:   "paste",
		}),
		ToggleTheme: bindingFromDef(cfg, bindingDef{
			action: ActionToggleTheme,
			keys:   []string{"t"},
			desc:   "theme",
		}),
	}
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys, ok := cfg.BindingFor(string(def.action))
	if !ok {
		keys = def.keys
	}
	helpKey := strings.Join(keys, "/")
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, def.desc),
	)
}

// PrimaryKey returns the first key in the binding, if present.
func PrimaryKey(binding key.Binding) string {
	keys := binding.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// BindingHint returns a single key hint for a binding, falling back to its
// help text.
func BindingHint(binding key.Binding) string {
	key := PrimaryKey(binding)
	if key == "" {
		return binding.Help().Key
	}
	return key
}

// ActionInfo describes a configurable action for UI display.
type ActionInfo struct {
	Action Action
	Desc   string
	Group  string
}

// ActionInfos returns the ordered list of actions for UI display.
func ActionInfos() []ActionInfo {
	return []ActionInfo{
		{Action: ActionMoveLeft, Desc: "Select pane to the left", Group: "Navigation"},
		{Action: ActionMoveRight, Desc: "Select pane to the right", Group: "Navigation"},
		{Action: ActionMoveUp, Desc: "Select pane above", Group: "Navigation"},
		{Action: ActionMoveDown, Desc: "Select pane below", Group: "Navigation"},
		{Action: ActionFocus, Desc: "Activate selected pane", Group: "Navigation"},
		{Action: ActionBack, Desc: "Leave pane / quit", Group: "Navigation"},
		{Action: ActionToggleTheme, Desc: "Switch theme", Group: "Navigation"},
		{Action: ActionListUp, Desc: "Previous request", Group: "List"},
		{Action: ActionListDown, Desc: "Next request", Group: "List"},
		{Action: ActionCopyURL, Desc: "Copy request URL", Group: "List"},
		{Action: ActionPaste, Desc: "Paste clipboard", Group: "Input"},
	}
}

// HintLine renders the shortcut hint bar text.
func HintLine(km KeyMap) string {
	move := "[←↑↓→]"
	if PrimaryKey(km.MoveLeft) != "left" || PrimaryKey(km.MoveUp) != "up" ||
		PrimaryKey(km.MoveDown) != "down" || PrimaryKey(km.MoveRight) != "right" {
		move = "[" + strings.Join([]string{
			BindingHint(km.MoveLeft), BindingHint(km.MoveUp),
			BindingHint(km.MoveDown), BindingHint(km.MoveRight),
		}, " ") + "]"
	}
	return move + " Move  " +
		"[" + hintName(BindingHint(km.Focus)) + "] Focus  " +
		"[" + hintName(BindingHint(km.Back)) + "] Back/Quit  " +
		"[" + hintName(BindingHint(km.CopyURL)) + "] Copy URL"
}

func hintName(k string) string {
	switch k {
	case "enter":
		return "Enter"
	case "esc":
		return "Esc"
	default:
		return k
	}
}
