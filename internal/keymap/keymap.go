package keymap

import "github.com/charmbracelet/bubbles/key"

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "grid" or "fullscreen"
}

// All contains every key binding of the browser.
var All = []Binding{
	// Grid
	{ActionQuit, []string{"q", "esc", "ctrl+c"}, "Quit", ContextGrid},
	{ActionMoveUp, []string{"up"}, "Move up", ContextGrid},
	{ActionMoveDown, []string{"down"}, "Move down", ContextGrid},
	{ActionMoveLeft, []string{"left"}, "Move left", ContextGrid},
	{ActionMoveRight, []string{"right"}, "Move right", ContextGrid},
	{ActionPageUp, []string{"pgup"}, "Previous page", ContextGrid},
	{ActionPageDown, []string{"pgdown"}, "Next page", ContextGrid},
	{ActionJumpStart, []string{"home", "ctrl+g"}, "First image", ContextGrid},
	{ActionJumpEnd, []string{"end", "G"}, "Last image", ContextGrid},
	{ActionView, []string{"enter"}, "View", ContextGrid},

	// Fullscreen
	{ActionBack, []string{"q", "esc"}, "Back", ContextFullscreen},
	{ActionQuit, []string{"ctrl+c"}, "Quit", ContextFullscreen},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// HelpBindings converts the bindings of a context for bubbles/help.
// Arrow bindings are folded into a single "arrows" entry.
func HelpBindings(context string) []key.Binding {
	var (
		result []key.Binding
		arrows []string
	)
	for _, b := range ByContext(context) {
		switch b.Action {
		case ActionMoveUp, ActionMoveDown, ActionMoveLeft, ActionMoveRight:
			arrows = append(arrows, b.Keys...)
			if len(arrows) == 4 {
				result = append(result, key.NewBinding(
					key.WithKeys(arrows...),
					key.WithHelp("arrows", "nav"),
				))
			}
			continue
		}
		result = append(result, key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(b.Keys[0], b.Description),
		))
	}
	return result
}
