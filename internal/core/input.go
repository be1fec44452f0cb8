package core

// Action represents a semantic world action, abstracted from physical key
// presses and mouse events.
type Action int

const (
	ActionNone    Action = iota
	ActionPress          // Mouse button went down at Mouse
	ActionRelease        // Mouse button went up
	ActionSave           // S - save the world
	ActionLoad           // L - load the last save
	ActionReset          // R - reset to the opening state
	ActionQuit           // Q, Ctrl+C - leave the session
	ActionHelp           // ? - toggle key help
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPress:
		return "Press"
	case ActionRelease:
		return "Release"
	case ActionSave:
		return "Save"
	case ActionLoad:
		return "Load"
	case ActionReset:
		return "Reset"
	case ActionQuit:
		return "Quit"
	case ActionHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// Mouse is the pointer position in world units relative to the view.
	Mouse Vector
	// MouseDown reports whether the button is held at the end of the frame.
	MouseDown bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all one-shot actions for the next frame. Mouse position and
// button state carry over.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
