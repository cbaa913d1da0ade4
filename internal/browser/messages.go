package browser

import tea "github.com/charmbracelet/bubbletea"

// StderrMsg carries one captured stderr line.
type StderrMsg struct {
	Line string
}

// watchStderr waits for the next captured line. It returns nil once the
// channel is closed, which ends the watch.
func watchStderr(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return StderrMsg{Line: line}
	}
}
