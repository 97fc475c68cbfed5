package keymap

import (
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/reqtty/internal/config"
)

func TestDefaultBindingsMatchKeys(t *testing.T) {
	km := New(config.KeyMapConfig{})
	tests := []struct {
		name    string
		msg     tea.KeyPressMsg
		binding key.Binding
	}{
		{name: "left", msg: tea.KeyPressMsg{Code: tea.KeyLeft}, binding: km.MoveLeft},
		{name: "right", msg: tea.KeyPressMsg{Code: tea.KeyRight}, binding: km.MoveRight},
		{name: "up", msg: tea.KeyPressMsg{Code: tea.KeyUp}, binding: km.MoveUp},
		{name: "down", msg: tea.KeyPressMsg{Code: tea.KeyDown}, binding: km.MoveDown},
		{name: "enter", msg: tea.KeyPressMsg{Code: tea.KeyEnter}, binding: km.Focus},
		{name: "esc", msg: tea.KeyPressMsg{Code: tea.KeyEscape}, binding: km.Back},
		{name: "copy", msg: tea.KeyPressMsg{Code: 'y', Text: "y"}, binding: km.CopyURL},
		{name: "paste", msg: tea.KeyPressMsg{Code: 'v', Mod: tea.ModCtrl}, binding: km.Paste},
		{name: "list down", msg: tea.KeyPressMsg{Code: 'j', Text: "j"}, binding: km.ListDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !key.Matches(tt.msg, tt.binding) {
				t.Fatalf("%q does not match %v", tt.msg.String(), tt.binding.Keys())
			}
		})
	}
}

func TestOverridesReplaceDefaults(t *testing.T) {
	km := New(config.KeyMapConfig{Bindings: map[string][]string{
		"copy_url": {"c"},
	}})
	if key.Matches(tea.KeyPressMsg{Code: 'y', Text: "y"}, km.CopyURL) {
		t.Fatal("default key should be replaced by the override")
	}
	if !key.Matches(tea.KeyPressMsg{Code: 'c', Text: "c"}, km.CopyURL) {
		t.Fatal("override key should match")
	}
	if got := km.CopyURL.Help().Key; got != "c" {
		t.Fatalf("help key = %q, want c", got)
	}
}

func TestHintLine(t *testing.T) {
	got := HintLine(New(config.KeyMapConfig{}))
	want := "[←↑↓→] Move  [Enter] Focus  [Esc] Back/Quit  [y] Copy URL"
	if got != want {
		t.Fatalf("HintLine() = %q, want %q", got, want)
	}
}

func TestHintLineReflectsOverrides(t *testing.T) {
	km := New(config.KeyMapConfig{Bindings: map[string][]string{
		"move_left":  {"h"},
		"move_down":  {"j"},
		"move_up":    {"k"},
		"move_right": {"l"},
	}})
	want := "[h k j l] Move  [Enter] Focus  [Esc] Back/Quit  [y] Copy URL"
	if got := HintLine(km); got != want {
		t.Fatalf("HintLine() = %q, want %q", got, want)
	}
}

func TestActionInfosCoverEveryAction(t *testing.T) {
	seen := map[Action]bool{}
	for _, info := range ActionInfos() {
		if seen[info.Action] {
			t.Fatalf("duplicate action %q", info.Action)
		}
		seen[info.Action] = true
	}
	if len(seen) != 11 {
		t.Fatalf("expected 11 actions, got %d", len(seen))
	}
}
