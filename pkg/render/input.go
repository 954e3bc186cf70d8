package render

// Intent names one of the six movement directions.
type Intent int

const (
	IntentForward Intent = iota
	IntentLeft
	IntentBack
	IntentRight
	IntentUp
	IntentDown
)

func (i Intent) String() string {
	switch i {
	case IntentForward:
		return "forward"
	case IntentLeft:
		return "left"
	case IntentBack:
		return "back"
	case IntentRight:
		return "right"
	case IntentUp:
		return "up"
	case IntentDown:
		return "down"
	}
	return "unknown"
}

// Intents holds the movement directions currently held down. Each flag is
// set on key press and cleared on the matching release.
type Intents struct {
	Forward, Left, Back, Right, Up, Down bool
}

// Any reports whether at least one direction is active.
func (in Intents) Any() bool {
	return in.Forward || in.Left || in.Back || in.Right || in.Up || in.Down
}

// Has reports whether the intent is active.
func (in Intents) Has(i Intent) bool {
	switch i {
	case IntentForward:
		return in.Forward
	case IntentLeft:
		return in.Left
	case IntentBack:
		return in.Back
	case IntentRight:
		return in.Right
	case IntentUp:
		return in.Up
	case IntentDown:
		return in.Down
	}
	return false
}

// Press marks the intent active.
func (in *Intents) Press(i Intent) { in.set(i, true) }

// Release marks the intent inactive.
func (in *Intents) Release(i Intent) { in.set(i, false) }

// Clear releases every intent.
func (in *Intents) Clear() { *in = Intents{} }

func (in *Intents) set(i Intent, v bool) {
	switch i {
	case IntentForward:
		in.Forward = v
	case IntentLeft:
		in.Left = v
	case IntentBack:
		in.Back = v
	case IntentRight:
		in.Right = v
	case IntentUp:
		in.Up = v
	case IntentDown:
		in.Down = v
	}
}
