package testutil

import tea "github.com/charmbracelet/bubbletea"

// Harness drives a tea.Model the way the program loop would, collecting the
// commands it returns.
type Harness struct {
	model tea.Model
	cmds  []tea.Cmd
}

// NewHarness initializes m and captures its init command.
func NewHarness(m tea.Model) *Harness {
	h := &Harness{model: m}
	if cmd := m.Init(); cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return h
}

// Model returns the current model for type assertion.
func (h *Harness) Model() tea.Model {
	return h.model
}

// View returns the model's rendered content.
func (h *Harness) View() string {
	return h.model.View()
}

// Send delivers any message and returns the resulting command.
func (h *Harness) Send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// Resize sends a window size message.
func (h *Harness) Resize(width, height int) tea.Cmd {
	return h.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

// SendRunes simulates typing s.
func (h *Harness) SendRunes(s string) tea.Cmd {
	return h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// SendKey sends a special key (enter, escape, arrows, ...).
func (h *Harness) SendKey(keyType tea.KeyType) tea.Cmd {
	return h.Send(tea.KeyMsg{Type: keyType})
}

// Commands returns all commands collected so far.
func (h *Harness) Commands() []tea.Cmd {
	return h.cmds
}

// ClearCommands clears the collected commands.
func (h *Harness) ClearCommands() {
	h.cmds = nil
}

// ExecuteCmd runs a command and returns the resulting message.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// IsQuit reports whether cmd, when run, asks the program to quit.
func IsQuit(cmd tea.Cmd) bool {
	_, ok := ExecuteCmd(cmd).(tea.QuitMsg)
	return ok
}
