package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapperMapKey(t *testing.T) {
	km := NewKeyMapper(4)

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"a", runeKey('a'), core.ActionLeft, false},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"h", runeKey('h'), core.ActionLeft, false},
		{"d", runeKey('d'), core.ActionRight, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionJump, false},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, false},
		{"z", runeKey('z'), core.ActionJump, false},
		{"p", runeKey('p'), core.ActionPause, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{"r", runeKey('r'), core.ActionRestart, false},
		{"b", runeKey('b'), core.ActionBack, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('x'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestKeyMapperHoldDecays(t *testing.T) {
	km := NewKeyMapper(3)
	frame := core.NewInputFrame()

	km.Press(runeKey('d'), &frame)
	if frame.Has(core.ActionRight) {
		t.Fatal("Press should not put a direction in the frame directly")
	}

	for tick := 0; tick < 3; tick++ {
		km.Frame(&frame)
		if frame.Horizontal() != 1 {
			t.Fatalf("tick %d: Horizontal() = %d, want 1", tick, frame.Horizontal())
		}
		frame.Clear()
	}

	km.Frame(&frame)
	if frame.Horizontal() != 0 {
		t.Errorf("hold should have decayed, Horizontal() = %d", frame.Horizontal())
	}
}

func TestKeyMapperRepeatRefreshesHold(t *testing.T) {
	km := NewKeyMapper(2)
	frame := core.NewInputFrame()

	km.Press(runeKey('a'), &frame)
	for tick := 0; tick < 10; tick++ {
		// Auto-repeat arrives every tick
		km.Press(runeKey('a'), &frame)
		km.Frame(&frame)
		if frame.Horizontal() != -1 {
			t.Fatalf("tick %d: Horizontal() = %d, want -1", tick, frame.Horizontal())
		}
		frame.Clear()
	}
}

func TestKeyMapperOppositeCancels(t *testing.T) {
	km := NewKeyMapper(8)
	frame := core.NewInputFrame()

	km.Press(runeKey('a'), &frame)
	km.Press(runeKey('d'), &frame)
	km.Frame(&frame)

	if frame.Has(core.ActionLeft) {
		t.Error("pressing right should release left")
	}
	if frame.Horizontal() != 1 {
		t.Errorf("Horizontal() = %d, want 1", frame.Horizontal())
	}
}

func TestKeyMapperEdgeActionsAndRelease(t *testing.T) {
	km := NewKeyMapper(8)
	frame := core.NewInputFrame()

	if quit := km.Press(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, &frame); quit {
		t.Fatal("space is not a quit key")
	}
	if !frame.Has(core.ActionJump) {
		t.Error("jump should land in the frame on press")
	}

	km.Press(runeKey('d'), &frame)
	km.Release()
	frame.Clear()
	km.Frame(&frame)
	if frame.Horizontal() != 0 {
		t.Errorf("Release should drop held directions, Horizontal() = %d", frame.Horizontal())
	}

	if quit := km.Press(runeKey('q'), &frame); !quit {
		t.Error("q should report quit")
	}
}

func TestKeyMapperDefaultHold(t *testing.T) {
	km := NewKeyMapper(0)
	if km.holdTicks != DefaultHoldTicks {
		t.Errorf("holdTicks = %d, want %d", km.holdTicks, DefaultHoldTicks)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper(0)

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}
