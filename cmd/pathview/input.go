package main

import (
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/pathview/pkg/render"
)

// action is a one-shot command triggered by a key.
type action int

const (
	actionNone action = iota
	actionQuit
	actionSnapshot
	actionToggleHUD
	actionReset
)

// binding maps key names to a movement intent.
type binding struct {
	keys   []string
	intent render.Intent
}

var movement = []binding{
	{[]string{"w", "up"}, render.IntentForward},
	{[]string{"a", "left"}, render.IntentLeft},
	{[]string{"s", "down"}, render.IntentBack},
	{[]string{"d", "right"}, render.IntentRight},
	{[]string{"space"}, render.IntentUp},
	{[]string{"c"}, render.IntentDown},
}

// controls turns terminal events into per-tick camera input.
//
// Terminals that never report key releases would leave a pressed key held
// forever, so until the first release arrives every press only moves the
// camera for the tick it is drained in.
type controls struct {
	held     render.Intents
	impulse  render.Intents
	releases bool

	captured     bool
	lastX, lastY int
	tracking     bool
	dx, dy       float64
	scale        float64
}

func newControls(mouseScale float64) *controls {
	return &controls{captured: true, scale: mouseScale}
}

// handle applies one event and returns the command it triggered, if any.
func (c *controls) handle(ev uv.Event) action {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("ctrl+c", "q"):
			return actionQuit
		case ev.MatchString("escape"):
			c.captured = !c.captured
			c.tracking = false
			c.releaseAll()
			render.Logger().Debug("mouse capture", "captured", c.captured)
			return actionNone
		case ev.MatchString("p"):
			return actionSnapshot
		case ev.MatchString("?", "shift+/"):
			return actionToggleHUD
		case ev.MatchString("r"):
			return actionReset
		case isShift(ev.Code):
			c.press(render.IntentDown)
			return actionNone
		}
		if i, ok := intentFor(uv.Key(ev)); ok {
			c.press(i)
		}

	case uv.KeyReleaseEvent:
		if !c.releases {
			c.releases = true
			render.Logger().Debug("terminal reports key releases")
		}
		if isShift(ev.Code) {
			c.held.Release(render.IntentDown)
		} else if i, ok := intentFor(uv.Key(ev)); ok {
			c.held.Release(i)
		}

	case uv.MouseMotionEvent:
		if !c.captured {
			return actionNone
		}
		if c.tracking {
			c.dx += float64(ev.X-c.lastX) * c.scale
			// Rows are two pixels tall.
			c.dy += float64(ev.Y-c.lastY) * c.scale * 2
		}
		c.lastX, c.lastY, c.tracking = ev.X, ev.Y, true
	}
	return actionNone
}

func (c *controls) press(i render.Intent) {
	if c.releases {
		c.held.Press(i)
	} else {
		c.impulse.Press(i)
	}
}

// take returns the input accumulated since the last call and clears the
// one-tick parts of it.
func (c *controls) take(width, height int) render.TickInput {
	in := render.TickInput{
		Intents: c.held,
		MouseDX: c.dx,
		MouseDY: c.dy,
		Width:   width,
		Height:  height,
	}
	for i := render.IntentForward; i <= render.IntentDown; i++ {
		if c.impulse.Has(i) {
			in.Intents.Press(i)
		}
	}
	c.impulse.Clear()
	c.dx, c.dy = 0, 0
	return in
}

// releaseAll drops every held key.
func (c *controls) releaseAll() {
	c.held.Clear()
	c.impulse.Clear()
}

func intentFor(k uv.Key) (render.Intent, bool) {
	for _, b := range movement {
		for _, name := range b.keys {
			if k.MatchString(name) {
				return b.intent, true
			}
		}
	}
	return 0, false
}

func isShift(code rune) bool {
	return code == uv.KeyLeftShift || code == uv.KeyRightShift
}
