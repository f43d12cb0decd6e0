package orbital

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrUnknownIdleBehavior is returned for an idle behavior name that does not
// exist.
var ErrUnknownIdleBehavior = errors.New("unknown idle behavior")

// IdleBehaviorKind selects the automatic camera motion.
type IdleBehaviorKind int

const (
	// IdleOrbit orbits the anchor to the right in camera space.
	IdleOrbit IdleBehaviorKind = iota
	// IdleOrbitAtConstantLatitude orbits around the anchor's local Z (north) axis.
	IdleOrbitAtConstantLatitude
	// IdleOrbitAroundUp orbits around the anchor's local Y (up) axis.
	IdleOrbitAroundUp
)

var idleBehaviorNames = [...]string{
	IdleOrbit:              "Orbit",
	IdleOrbitAtConstantLatitude: "OrbitAtConstantLatitude",
	IdleOrbitAroundUp:      "OrbitAroundUp",
}

// String returns the behavior name.
func (k IdleBehaviorKind) String() string {
	if k >= 0 && int(k) < len(idleBehaviorNames) {
		return idleBehaviorNames[k]
	}
	return fmt.Sprintf("IdleBehaviorKind(%d)", int(k))
}

// ParseIdleBehavior converts a behavior name to its kind.
func ParseIdleBehavior(s string) (IdleBehaviorKind, error) {
	for k, name := range idleBehaviorNames {
		if name == s {
			return IdleBehaviorKind(k), nil
		}
	}
	return IdleOrbit, fmt.Errorf("%w: %q", ErrUnknownIdleBehavior, s)
}

// MarshalYAML implements yaml.Marshaler.
func (k IdleBehaviorKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *IdleBehaviorKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseIdleBehavior(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// FrictionSettings controls how fast camera motion stops after input ends.
type FrictionSettings struct {
	// Rotational applies friction to orbiting.
	Rotational bool `yaml:"rotational"`
	// Zoom applies friction to moving towards or away from the anchor.
	Zoom bool `yaml:"zoom"`
	// Roll applies friction to rolling and looking around.
	Roll bool `yaml:"roll"`
	// Factor scales the friction; smaller values stop motion sooner.
	Factor float64 `yaml:"factor"`
}

// LinearFlightSettings controls flights along the anchor to camera line.
type LinearFlightSettings struct {
	// DestinationDistance is the target distance to the anchor surface.
	DestinationDistance float64 `yaml:"destinationDistance"`
	// DestinationFactor scales the arrival tolerance relative to the
	// destination distance.
	DestinationFactor float64 `yaml:"destinationFactor"`
	// VelocitySensitivity scales the flight speed.
	VelocitySensitivity float64 `yaml:"velocitySensitivity"`
}

// IdleBehaviorSettings controls the automatic camera motion.
type IdleBehaviorSettings struct {
	Kind        IdleBehaviorKind `yaml:"kind"`
	SpeedFactor float64          `yaml:"speedFactor"`
	// AbortOnCameraInteraction stops the motion on any user input.
	AbortOnCameraInteraction bool `yaml:"abortOnCameraInteraction"`
	// DampenInterpolationTime is the ramp in and out duration in seconds.
	DampenInterpolationTime float64 `yaml:"dampenInterpolationTime"`
}

// Settings configures the orbital navigator.
type Settings struct {
	Anchor string `yaml:"anchor,omitempty"`
	Aim    string `yaml:"aim,omitempty"`

	Friction     FrictionSettings     `yaml:"friction"`
	LinearFlight LinearFlightSettings `yaml:"linearFlight"`
	IdleBehavior IdleBehaviorSettings `yaml:"idleBehavior"`

	FollowAnchorNodeRotation bool `yaml:"followAnchorNodeRotation"`
	// FollowAnchorNodeRotationDistance is a multiple of the anchor's surface
	// radius within which the camera rotates with the anchor.
	FollowAnchorNodeRotationDistance float64 `yaml:"followAnchorNodeRotationDistance"`
	MinimumAllowedDistance           float64 `yaml:"minimumAllowedDistance"`

	MouseSensitivity     float64 `yaml:"mouseSensitivity"`
	JoystickSensitivity  float64 `yaml:"joystickSensitivity"`
	WebsocketSensitivity float64 `yaml:"websocketSensitivity"`
	InvertMouseButtons   bool    `yaml:"invertMouseButtons"`

	UseAdaptiveStereoscopicDepth    bool    `yaml:"useAdaptiveStereoscopicDepth"`
	StereoscopicDepthOfFocusSurface float64 `yaml:"stereoscopicDepthOfFocusSurface"`
	StaticViewScaleExponent         float64 `yaml:"staticViewScaleExponent"`

	RetargetInterpolationTime       float64 `yaml:"retargetInterpolationTime"`
	StereoInterpolationTime         float64 `yaml:"stereoInterpolationTime"`
	FollowRotationInterpolationTime float64 `yaml:"followRotationInterpolationTime"`
}

// DefaultSettings returns the default navigator configuration.
func DefaultSettings() Settings {
	return Settings{
		Friction: FrictionSettings{
			Rotational: true,
			Zoom:       true,
			Roll:       true,
			Factor:     0.5,
		},
		LinearFlight: LinearFlightSettings{
			DestinationDistance: 2e8,
			DestinationFactor:   1e-4,
			VelocitySensitivity: 3.5,
		},
		IdleBehavior: IdleBehaviorSettings{
			Kind:                     IdleOrbit,
			SpeedFactor:              1,
			AbortOnCameraInteraction: true,
			DampenInterpolationTime:  0.5,
		},
		FollowAnchorNodeRotation:         true,
		FollowAnchorNodeRotationDistance: 5,
		MinimumAllowedDistance:           10,
		MouseSensitivity:                 15,
		JoystickSensitivity:              10,
		WebsocketSensitivity:             5,
		UseAdaptiveStereoscopicDepth:     true,
		StereoscopicDepthOfFocusSurface:  21500,
		StaticViewScaleExponent:          0,
		RetargetInterpolationTime:        2,
		StereoInterpolationTime:          8,
		FollowRotationInterpolationTime:  1,
	}
}

// Validate checks every value against its allowed range and reports all
// problems at once.
func (s Settings) Validate() error {
	var err error
	check := func(name string, v, lo, hi float64) {
		if v < lo || v > hi {
			err = multierr.Append(err, fmt.Errorf("%s = %v, must be in [%v, %v]", name, v, lo, hi))
		}
	}
	for _, d := range DescribeSettings() {
		if d.Min == nil || d.Max == nil {
			continue
		}
		check(d.Key, d.value(s), *d.Min, *d.Max)
	}
	if s.IdleBehavior.Kind < IdleOrbit || s.IdleBehavior.Kind > IdleOrbitAroundUp {
		err = multierr.Append(err, fmt.Errorf("idleBehavior.kind: %w: %d", ErrUnknownIdleBehavior, s.IdleBehavior.Kind))
	}
	return err
}
