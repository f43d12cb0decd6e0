// Package input translates SDL2 events into navigation input.
package input

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/orbital-nav/internal/logger"
	"github.com/Faultbox/orbital-nav/internal/navigation"
	"github.com/Faultbox/orbital-nav/internal/navigation/inputstate"
)

// axisMax is the magnitude of a fully deflected SDL joystick axis.
const axisMax = 32767.0

type joystick struct {
	name   string
	handle *sdl.Joystick // nil for devices seen only through events
	axes   []float64
}

// Input accumulates SDL events into the device state of one frame.
type Input struct {
	state     navigation.Input
	keys      map[sdl.Scancode]bool
	pressed   []sdl.Scancode
	joysticks map[sdl.JoystickID]*joystick
	quit      bool
	log       *zap.Logger
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		keys:      make(map[sdl.Scancode]bool),
		pressed:   make([]sdl.Scancode, 0, 8),
		joysticks: make(map[sdl.JoystickID]*joystick),
		log:       logger.Named("input"),
	}
}

// Update polls SDL events. Returns true if the application should quit.
func (i *Input) Update() bool {
	i.BeginFrame()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.Handle(event)
	}
	return i.quit
}

// BeginFrame clears the per-frame state: wheel movement and key presses.
func (i *Input) BeginFrame() {
	i.state.Mouse.ScrollDelta = 0
	i.pressed = i.pressed[:0]
}

// Handle applies one SDL event.
func (i *Input) Handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true

	case *sdl.KeyboardEvent:
		i.state.Keys.Modifiers = modifiers(e.Keysym.Mod)
		if e.Type == sdl.KEYDOWN {
			if !i.keys[e.Keysym.Scancode] {
				i.pressed = append(i.pressed, e.Keysym.Scancode)
			}
			i.keys[e.Keysym.Scancode] = true
		} else if e.Type == sdl.KEYUP {
			i.keys[e.Keysym.Scancode] = false
		}

	case *sdl.MouseMotionEvent:
		i.state.Mouse.Position = mgl64.Vec2{float64(e.X), float64(e.Y)}

	case *sdl.MouseButtonEvent:
		i.state.Mouse.Position = mgl64.Vec2{float64(e.X), float64(e.Y)}
		if b, ok := mouseButton(e.Button); ok {
			i.state.Mouse.Pressed[b] = e.Type == sdl.MOUSEBUTTONDOWN
		}

	case *sdl.MouseWheelEvent:
		i.state.Mouse.ScrollDelta += float64(e.Y)

	case *sdl.JoyDeviceAddedEvent:
		i.openJoystick(int(e.Which))

	case *sdl.JoyDeviceRemovedEvent:
		i.closeJoystick(sdl.JoystickID(e.Which))

	case *sdl.JoyAxisEvent:
		if int(e.Axis) >= inputstate.MaxAxes {
			return
		}
		j := i.joystick(e.Which)
		j.axes[e.Axis] = clampAxis(float64(e.Value) / axisMax)
	}
}

func modifiers(mod uint16) inputstate.KeyModifier {
	m := uint32(mod)
	var out inputstate.KeyModifier
	if m&uint32(sdl.KMOD_SHIFT) != 0 {
		out |= inputstate.ModShift
	}
	if m&uint32(sdl.KMOD_CTRL) != 0 {
		out |= inputstate.ModControl
	}
	if m&uint32(sdl.KMOD_ALT) != 0 {
		out |= inputstate.ModAlt
	}
	return out
}

func mouseButton(b uint8) (inputstate.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return inputstate.ButtonPrimary, true
	case sdl.BUTTON_RIGHT:
		return inputstate.ButtonSecondary, true
	case sdl.BUTTON_MIDDLE:
		return inputstate.ButtonMiddle, true
	}
	return 0, false
}

func clampAxis(v float64) float64 {
	return mgl64.Clamp(v, -1, 1)
}

func (i *Input) joystick(id sdl.JoystickID) *joystick {
	j, ok := i.joysticks[id]
	if !ok {
		j = &joystick{name: fmt.Sprintf("joystick%d", id), axes: make([]float64, inputstate.MaxAxes)}
		i.joysticks[id] = j
	}
	return j
}

func (i *Input) openJoystick(index int) {
	handle := sdl.JoystickOpen(index)
	if handle == nil {
		i.log.Warn("could not open joystick", zap.Int("index", index), zap.Error(sdl.GetError()))
		return
	}
	id := handle.InstanceID()
	j := i.joystick(id)
	j.handle = handle
	if name := handle.Name(); name != "" {
		j.name = name
	}
	i.log.Info("joystick connected", zap.String("name", j.name), zap.Int("axes", handle.NumAxes()))
}

func (i *Input) closeJoystick(id sdl.JoystickID) {
	j, ok := i.joysticks[id]
	if !ok {
		return
	}
	if j.handle != nil {
		j.handle.Close()
	}
	delete(i.joysticks, id)
	i.log.Info("joystick disconnected", zap.String("name", j.name))
}

// Close releases every open joystick.
func (i *Input) Close() {
	for id := range i.joysticks {
		i.closeJoystick(id)
	}
}

// State returns the device state gathered so far this frame.
func (i *Input) State() navigation.Input {
	st := i.state
	ids := make([]int, 0, len(i.joysticks))
	for id := range i.joysticks {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		j := i.joysticks[sdl.JoystickID(id)]
		st.Joysticks = append(st.Joysticks, inputstate.AxisInput{
			Name: j.name,
			Axes: append([]float64(nil), j.axes...),
		})
	}
	return st
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, k := range i.pressed {
		if k == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.keys[scancode]
}

// QuitRequested reports whether a quit event was received.
func (i *Input) QuitRequested() bool {
	return i.quit
}
