package input

import "github.com/veandco/go-sdl2/sdl"

// Action is a map command bound to a key or mouse button.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPanNorth
	ActionPanSouth
	ActionPanEast
	ActionPanWest
	ActionZoomIn
	ActionZoomOut
	ActionDropPin
	ActionAddPoint
	ActionBuildPolygon
	ActionClearOutline
)

var actionNames = [...]string{
	ActionNone:         "none",
	ActionQuit:         "quit",
	ActionPanNorth:     "pan_north",
	ActionPanSouth:     "pan_south",
	ActionPanEast:      "pan_east",
	ActionPanWest:      "pan_west",
	ActionZoomIn:       "zoom_in",
	ActionZoomOut:      "zoom_out",
	ActionDropPin:      "drop_pin",
	ActionAddPoint:     "add_point",
	ActionBuildPolygon: "build_polygon",
	ActionClearOutline: "clear_outline",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Bindings maps key scancodes to actions.
type Bindings map[sdl.Scancode]Action

// DefaultBindings returns arrows/WASD for panning, =/- for zoom, P for a
// pin, Enter to build the drawn outline, Backspace to clear it and Esc to
// quit.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_UP:        ActionPanNorth,
		sdl.SCANCODE_W:         ActionPanNorth,
		sdl.SCANCODE_DOWN:      ActionPanSouth,
		sdl.SCANCODE_S:         ActionPanSouth,
		sdl.SCANCODE_RIGHT:     ActionPanEast,
		sdl.SCANCODE_D:         ActionPanEast,
		sdl.SCANCODE_LEFT:      ActionPanWest,
		sdl.SCANCODE_A:         ActionPanWest,
		sdl.SCANCODE_EQUALS:    ActionZoomIn,
		sdl.SCANCODE_KP_PLUS:   ActionZoomIn,
		sdl.SCANCODE_MINUS:     ActionZoomOut,
		sdl.SCANCODE_KP_MINUS:  ActionZoomOut,
		sdl.SCANCODE_P:         ActionDropPin,
		sdl.SCANCODE_RETURN:    ActionBuildPolygon,
		sdl.SCANCODE_KP_ENTER:  ActionBuildPolygon,
		sdl.SCANCODE_BACKSPACE: ActionClearOutline,
		sdl.SCANCODE_ESCAPE:    ActionQuit,
	}
}

// Command is an action triggered this frame. Mouse actions carry the
// cursor position.
type Command struct {
	Action Action
	X, Y   int
}

// Commands translates the events of the last Update into actions.
func (i *Input) Commands(b Bindings) []Command {
	var cmds []Command
	for _, e := range i.events {
		switch e.Type {
		case EventQuit:
			cmds = append(cmds, Command{Action: ActionQuit})
		case EventKeyDown:
			if a, ok := b[e.Key]; ok {
				cmds = append(cmds, Command{Action: a})
			}
		case EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				cmds = append(cmds, Command{Action: ActionAddPoint, X: e.MouseX, Y: e.MouseY})
			}
		}
	}
	return cmds
}
