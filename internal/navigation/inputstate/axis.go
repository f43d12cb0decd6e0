package inputstate

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// MaxAxes is the number of axes tracked per device.
const MaxAxes = 10

// ErrUnknownAxisType is returned when decoding an unknown axis type name.
var ErrUnknownAxisType = errors.New("unknown axis type")

// AxisType is the camera motion an input axis drives.
type AxisType int

const (
	AxisNone AxisType = iota
	AxisOrbitX
	AxisOrbitY
	AxisZoomIn
	AxisZoomOut
	AxisZoom
	AxisLocalRollX
	AxisLocalRollY
	AxisGlobalRollX
	AxisGlobalRollY
	AxisPanX
	AxisPanY
)

var axisTypeNames = map[AxisType]string{
	AxisNone:        "None",
	AxisOrbitX:      "Orbit X",
	AxisOrbitY:      "Orbit Y",
	AxisZoomIn:      "Zoom In",
	AxisZoomOut:     "Zoom Out",
	AxisZoom:        "Zoom",
	AxisLocalRollX:  "LocalRoll X",
	AxisLocalRollY:  "LocalRoll Y",
	AxisGlobalRollX: "GlobalRoll X",
	AxisGlobalRollY: "GlobalRoll Y",
	AxisPanX:        "Pan X",
	AxisPanY:        "Pan Y",
}

// String returns the display name of the axis type.
func (t AxisType) String() string {
	if s, ok := axisTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("AxisType(%d)", int(t))
}

// ParseAxisType converts a display name back to an AxisType.
func ParseAxisType(s string) (AxisType, error) {
	for t, name := range axisTypeNames {
		if name == s {
			return t, nil
		}
	}
	return AxisNone, fmt.Errorf("%w: %q", ErrUnknownAxisType, s)
}

// MarshalYAML implements yaml.Marshaler.
func (t AxisType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *AxisType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseAxisType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// AxisMapping describes how one device axis drives the camera.
type AxisMapping struct {
	Type   AxisType `yaml:"type"`
	Invert bool     `yaml:"invert,omitempty"`
	// TriggerLike axes rest at -1 and are remapped to [0, 1].
	TriggerLike bool `yaml:"triggerLike,omitempty"`
	// Sticky axes keep their value when released, so only the change since
	// the last frame is used.
	Sticky   bool    `yaml:"sticky,omitempty"`
	Deadzone float64 `yaml:"deadzone,omitempty"`
	// Sensitivity overrides the device sensitivity when non-zero.
	Sensitivity float64 `yaml:"sensitivity,omitempty"`
}

// AxisInput is the axis state of one named device for one frame.
type AxisInput struct {
	Name string
	Axes []float64
}

type deviceState struct {
	mappings      [MaxAxes]AxisMapping
	prevAxisValue [MaxAxes]float64
}

// AxisCameraStates maps analog axes of joysticks or remote controllers to
// camera velocities. Each device is configured by name.
type AxisCameraStates struct {
	CameraStates
	devices map[string]*deviceState
}

// NewAxisCameraStates creates axis states with no mappings.
func NewAxisCameraStates(sensitivity, velocityScaleFactor float64) *AxisCameraStates {
	return &AxisCameraStates{
		CameraStates: newCameraStates(sensitivity, velocityScaleFactor),
		devices:      make(map[string]*deviceState),
	}
}

func (s *AxisCameraStates) device(name string) *deviceState {
	d, ok := s.devices[name]
	if !ok {
		d = &deviceState{}
		s.devices[name] = d
	}
	return d
}

// SetAxisMapping configures one axis of a device.
func (s *AxisCameraStates) SetAxisMapping(device string, axis int, m AxisMapping) error {
	if axis < 0 || axis >= MaxAxes {
		return fmt.Errorf("axis %d out of range [0, %d)", axis, MaxAxes)
	}
	s.device(device).mappings[axis] = m
	return nil
}

// AxisMapping returns the configuration of one axis of a device.
func (s *AxisCameraStates) AxisMapping(device string, axis int) AxisMapping {
	d, ok := s.devices[device]
	if !ok || axis < 0 || axis >= MaxAxes {
		return AxisMapping{}
	}
	return d.mappings[axis]
}

// SetDeadzone changes the deadzone of one axis.
func (s *AxisCameraStates) SetDeadzone(device string, axis int, deadzone float64) error {
	if axis < 0 || axis >= MaxAxes {
		return fmt.Errorf("axis %d out of range [0, %d)", axis, MaxAxes)
	}
	s.device(device).mappings[axis].Deadzone = deadzone
	return nil
}

type axisAccumulator struct {
	active bool
	value  mgl64.Vec2
}

// UpdateStateFromInput advances the velocities by one frame.
func (s *AxisCameraStates) UpdateStateFromInput(inputs []AxisInput, dt float64) {
	var globalRotation, zoom, localRoll, globalRoll, pan axisAccumulator

	for _, in := range inputs {
		d, ok := s.devices[in.Name]
		if !ok {
			continue
		}
		for i, raw := range in.Axes {
			if i >= MaxAxes {
				break
			}
			m := d.mappings[i]
			if m.Type == AxisNone {
				continue
			}

			value := raw
			if m.Sticky {
				value = raw - d.prevAxisValue[i]
				d.prevAxisValue[i] = raw
			}
			if gomath.Abs(value) <= m.Deadzone {
				continue
			}
			if m.Invert {
				value = -value
			}
			if m.TriggerLike {
				value = (value + 1) / 2
			}
			if gomath.Abs(m.Sensitivity) > 0 {
				value *= m.Sensitivity * s.sensitivity
			} else {
				value *= s.sensitivity
			}

			switch m.Type {
			case AxisOrbitX:
				globalRotation.active = true
				globalRotation.value[0] = value
			case AxisOrbitY:
				globalRotation.active = true
				globalRotation.value[1] = value
			case AxisZoomIn:
				zoom.active = true
				zoom.value[0] += value
			case AxisZoomOut:
				zoom.active = true
				zoom.value[0] -= value
			case AxisZoom:
				zoom.active = true
				zoom.value[0] = value
			case AxisLocalRollX:
				localRoll.active = true
				localRoll.value[0] = value
			case AxisLocalRollY:
				localRoll.active = true
				localRoll.value[1] = value
			case AxisGlobalRollX:
				globalRoll.active = true
				globalRoll.value[0] = value
			case AxisGlobalRollY:
				globalRoll.active = true
				globalRoll.value[1] = value
			case AxisPanX:
				pan.active = true
				pan.value[0] = value
			case AxisPanY:
				pan.active = true
				pan.value[1] = value
			}
		}
	}

	// Zoom drives both truck components
	zoom.value[1] = zoom.value[0]

	setOrDecelerate(&s.globalRotation, globalRotation.active, globalRotation.value, dt)
	setOrDecelerate(&s.truckMovement, zoom.active, zoom.value, dt)
	setOrDecelerate(&s.localRoll, localRoll.active, localRoll.value, dt)
	setOrDecelerate(&s.globalRoll, globalRoll.active, globalRoll.value, dt)
	setOrDecelerate(&s.pan, pan.active, pan.value, dt)
	s.localRotation.velocity.decelerate(dt)
}
