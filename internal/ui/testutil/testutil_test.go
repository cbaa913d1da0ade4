package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no ansi codes", "hello world", "hello world"},
		{"with color codes", "\x1b[31mred\x1b[0m text", "red text"},
		{"with multiple codes", "\x1b[1;32mbold green\x1b[0m", "bold green"},
		{"sixel placement", "a\x1b[s\x1b[2;3H\x1bPq#0;2;0;0;0~\x1b\\\x1b[ub", "ab"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripANSI(tt.input); got != tt.want {
				t.Errorf("StripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountSixels(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"plain", 0},
		{"\x1bPq~\x1b\\", 1},
		{"\x1bP0;0;8q~\x1b\\x\x1bPq-\x1b\\", 2},
		{"\x1bP+q\x1b\\", 1},
		{"\x1bP$r\x1b\\", 0},
	}

	for _, tt := range tests {
		if got := CountSixels(tt.input); got != tt.want {
			t.Errorf("CountSixels(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFindLine(t *testing.T) {
	output := "first line\nsecond line\nthird line"

	if got := FindLine(output, "second"); got != "second line" {
		t.Errorf("FindLine() = %q, want %q", got, "second line")
	}
	if got := FindLine(output, "missing"); got != "" {
		t.Errorf("FindLine() for missing = %q, want empty", got)
	}
	if !ContainsLine(output, "third") || ContainsLine(output, "fourth") {
		t.Error("ContainsLine mismatch")
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("one\ntwo\nthree\n\n")
	if len(got) != 3 || got[0] != "one" || got[2] != "three" {
		t.Errorf("SplitLines() = %v, want [one two three]", got)
	}
}

func TestMeasureWidth(t *testing.T) {
	if got := MeasureWidth("\x1b[1m写真\x1b[0m"); got != 4 {
		t.Errorf("MeasureWidth = %d, want 4", got)
	}
}

type counter struct{ n int }

func (c counter) Init() tea.Cmd { return nil }

func (c counter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if k.String() == "q" {
			return c, tea.Quit
		}
		c.n++
	}
	return c, nil
}

func (c counter) View() string { return "" }

func TestHarness(t *testing.T) {
	h := NewHarness(counter{})
	h.SendKey(tea.KeyDown)
	h.SendRunes("x")
	if got := h.Model().(counter).n; got != 2 {
		t.Errorf("n = %d, want 2", got)
	}
	if len(h.Commands()) != 0 {
		t.Errorf("unexpected commands")
	}

	cmd := h.SendRunes("q")
	if !IsQuit(cmd) {
		t.Error("q should quit")
	}
	h.ClearCommands()
	if len(h.Commands()) != 0 {
		t.Error("ClearCommands left commands")
	}
	if IsQuit(nil) {
		t.Error("nil command is not quit")
	}
}
