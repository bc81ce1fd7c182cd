// Package input turns SDL2 events into map viewer commands.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType is the kind of a polled event the viewer reacts to.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseDown
	EventMouseWheel
)

// Event is a polled SDL event reduced to the fields the viewer reads.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  int
}

// Input buffers the events of one frame and remembers the cursor.
type Input struct {
	events []Event
	mouseX int
	mouseY int
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls pending SDL events. It returns true once a quit was requested.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			// Held keys would pan or zoom once per repeat.
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseMotionEvent:
			i.mouseX, i.mouseY = int(e.X), int(e.Y)

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseWheel,
				Wheel:  int(e.Y),
				MouseX: i.mouseX,
				MouseY: i.mouseY,
			})

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.mouseX, i.mouseY = int(e.X), int(e.Y)
				i.events = append(i.events, Event{
					Type:   EventMouseDown,
					MouseX: i.mouseX,
					MouseY: i.mouseY,
					Button: e.Button,
				})
			}
		}
	}

	return false
}

// Events returns the events of the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Mouse returns the last known cursor position in window pixels.
func (i *Input) Mouse() (x, y int) {
	return i.mouseX, i.mouseY
}
