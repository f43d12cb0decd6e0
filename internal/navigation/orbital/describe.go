package orbital

// SettingDescription documents one navigator setting for user interfaces.
type SettingDescription struct {
	Key         string
	Description string
	Default     interface{}
	// Min and Max bound numeric settings; nil for others.
	Min, Max *float64

	get func(Settings) float64
}

func (d SettingDescription) value(s Settings) float64 {
	if d.get == nil {
		return 0
	}
	return d.get(s)
}

func bound(v float64) *float64 { return &v }

func numeric(key, desc string, lo, hi float64, get func(Settings) float64) SettingDescription {
	return SettingDescription{
		Key:         key,
		Description: desc,
		Default:     get(DefaultSettings()),
		Min:         bound(lo),
		Max:         bound(hi),
		get:         get,
	}
}

func flag(key, desc string, get func(Settings) bool) SettingDescription {
	return SettingDescription{Key: key, Description: desc, Default: get(DefaultSettings())}
}

// DescribeSettings lists every navigator setting with its default value and
// allowed range.
func DescribeSettings() []SettingDescription {
	return []SettingDescription{
		flag("friction.rotational", "Apply friction when orbiting the anchor",
			func(s Settings) bool { return s.Friction.Rotational }),
		flag("friction.zoom", "Apply friction when moving towards or away from the anchor",
			func(s Settings) bool { return s.Friction.Zoom }),
		flag("friction.roll", "Apply friction when rolling or looking around",
			func(s Settings) bool { return s.Friction.Roll }),
		numeric("friction.factor", "Smaller values stop motion sooner after input ends", 0, 1,
			func(s Settings) float64 { return s.Friction.Factor }),

		numeric("linearFlight.destinationDistance", "Target distance to the anchor surface", 0, 1e13,
			func(s Settings) float64 { return s.LinearFlight.DestinationDistance }),
		numeric("linearFlight.destinationFactor", "Arrival tolerance relative to the destination distance", 1e-5, 0.5,
			func(s Settings) float64 { return s.LinearFlight.DestinationFactor }),
		numeric("linearFlight.velocitySensitivity", "Flight speed", 0.1, 15,
			func(s Settings) float64 { return s.LinearFlight.VelocitySensitivity }),

		{Key: "idleBehavior.kind", Description: "Automatic motion: Orbit, OrbitAtConstantLatitude or OrbitAroundUp",
			Default: DefaultSettings().IdleBehavior.Kind.String()},
		numeric("idleBehavior.speedFactor", "Speed of the automatic motion", 0, 5,
			func(s Settings) float64 { return s.IdleBehavior.SpeedFactor }),
		flag("idleBehavior.abortOnCameraInteraction", "Stop the automatic motion on user input",
			func(s Settings) bool { return s.IdleBehavior.AbortOnCameraInteraction }),
		numeric("idleBehavior.dampenInterpolationTime", "Seconds to ramp the automatic motion in and out", 0, 10,
			func(s Settings) float64 { return s.IdleBehavior.DampenInterpolationTime }),

		flag("followAnchorNodeRotation", "Rotate with the anchor when close to it",
			func(s Settings) bool { return s.FollowAnchorNodeRotation }),
		numeric("followAnchorNodeRotationDistance", "Follow distance as a multiple of the anchor radius", 0, 20,
			func(s Settings) float64 { return s.FollowAnchorNodeRotationDistance }),
		numeric("minimumAllowedDistance", "Closest the camera may get to the anchor surface", 0, 10000,
			func(s Settings) float64 { return s.MinimumAllowedDistance }),

		numeric("mouseSensitivity", "Mouse input sensitivity", 1, 50,
			func(s Settings) float64 { return s.MouseSensitivity }),
		numeric("joystickSensitivity", "Joystick input sensitivity", 1, 50,
			func(s Settings) float64 { return s.JoystickSensitivity }),
		numeric("websocketSensitivity", "Remote controller input sensitivity", 1, 50,
			func(s Settings) float64 { return s.WebsocketSensitivity }),
		flag("invertMouseButtons", "Swap the primary and secondary mouse buttons",
			func(s Settings) bool { return s.InvertMouseButtons }),

		flag("useAdaptiveStereoscopicDepth", "Derive the view scale from the distance to the anchor surface",
			func(s Settings) bool { return s.UseAdaptiveStereoscopicDepth }),
		numeric("stereoscopicDepthOfFocusSurface", "Perceived distance of the anchor surface", 0.25, 500000,
			func(s Settings) float64 { return s.StereoscopicDepthOfFocusSurface }),
		numeric("staticViewScaleExponent", "Power of ten view scale when not adaptive", -30, 10,
			func(s Settings) float64 { return s.StaticViewScaleExponent }),

		numeric("retargetInterpolationTime", "Seconds to turn towards the anchor or aim", 0, 10,
			func(s Settings) float64 { return s.RetargetInterpolationTime }),
		numeric("stereoInterpolationTime", "Seconds to adapt the view scale after a retarget", 0, 10,
			func(s Settings) float64 { return s.StereoInterpolationTime }),
		numeric("followRotationInterpolationTime", "Seconds to fade anchor rotation following in and out", 0, 10,
			func(s Settings) float64 { return s.FollowRotationInterpolationTime }),
	}
}
