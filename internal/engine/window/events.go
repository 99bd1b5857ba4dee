package window

import "github.com/veandco/go-sdl2/sdl"

// EventType identifies an input event.
type EventType int

const (
	EventQuit EventType = iota
	EventResize
	EventKeyDown
	EventMouseDrag
	EventWheel
)

// Event is a window or input event reduced to what the viewer needs.
type Event struct {
	Type EventType
	// Key is the SDL keycode for EventKeyDown.
	Key sdl.Keycode
	// X, Y carry the new size for EventResize, the motion for
	// EventMouseDrag and the scroll amount for EventWheel.
	X, Y float32
}

// PollEvents drains the SDL queue. Mouse motion is only reported while the
// left button is held.
func (w *Window) PollEvents(dst []Event) []Event {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			dst = append(dst, Event{Type: EventQuit})
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.DrawableSize()
				dst = append(dst, Event{Type: EventResize, X: float32(width), Y: float32(height)})
			}
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				dst = append(dst, Event{Type: EventKeyDown, Key: e.Keysym.Sym})
			}
		case *sdl.MouseMotionEvent:
			if e.State&sdl.ButtonLMask() != 0 {
				dst = append(dst, Event{Type: EventMouseDrag, X: float32(e.XRel), Y: float32(e.YRel)})
			}
		case *sdl.MouseWheelEvent:
			dst = append(dst, Event{Type: EventWheel, X: float32(e.X), Y: float32(e.Y)})
		}
	}
	return dst
}

// KeyHeld reports whether a key is currently pressed.
func KeyHeld(code sdl.Scancode) bool {
	return sdl.GetKeyboardState()[code] != 0
}
