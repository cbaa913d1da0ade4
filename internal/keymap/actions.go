// Package keymap defines key bindings and action dispatch for the browser.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit Action = "quit"

	// Grid navigation
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionMoveLeft  Action = "move_left"
	ActionMoveRight Action = "move_right"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionPageUp    Action = "page_up"
	ActionPageDown  Action = "page_down"

	ActionView Action = "view" // enter - open fullscreen
	ActionBack Action = "back" // q/esc in fullscreen
)

// Contexts a binding can belong to.
const (
	ContextGrid       = "grid"
	ContextFullscreen = "fullscreen"
)
