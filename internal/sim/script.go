package sim

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/multierr"

	"github.com/Faultbox/orbital-nav/internal/config"
	"github.com/Faultbox/orbital-nav/internal/navigation"
)

// Script plays scripted camera commands against a navigation handler.
type Script struct {
	steps []config.ScriptStep
	fired []bool
}

// NewScript creates a script runner for steps.
func NewScript(steps []config.ScriptStep) *Script {
	return &Script{steps: steps, fired: make([]bool, len(steps))}
}

// Finished reports whether every one-shot command has run and every velocity
// command has ended by time t.
func (s *Script) Finished(t time.Duration) bool {
	for i, st := range s.steps {
		if st.IsVelocity() {
			if t < st.At+st.Duration {
				return false
			}
		} else if !s.fired[i] {
			return false
		}
	}
	return true
}

// Apply issues every command that is due at time t. Velocity commands add
// their value once per call while active. One-shot commands run once; all
// of their errors are returned together.
func (s *Script) Apply(h *navigation.Handler, t time.Duration) error {
	var errs []error
	for i, st := range s.steps {
		if t < st.At {
			continue
		}
		if st.IsVelocity() {
			if t < st.At+st.Duration {
				addVelocity(h, st)
			}
			continue
		}
		if s.fired[i] {
			continue
		}
		s.fired[i] = true
		if err := run(h, st); err != nil {
			errs = append(errs, fmt.Errorf("script step %d (%s at %v): %w", i, st.Action, st.At, err))
		}
	}
	return multierr.Combine(errs...)
}

func addVelocity(h *navigation.Handler, st config.ScriptStep) {
	states := h.Orbital().ScriptStates()
	v := mgl64.Vec2(st.Value)
	switch st.Action {
	case config.ActionGlobalRotation:
		states.AddGlobalRotation(v)
	case config.ActionLocalRotation:
		states.AddLocalRotation(v)
	case config.ActionGlobalRoll:
		states.AddGlobalRoll(v)
	case config.ActionLocalRoll:
		states.AddLocalRoll(v)
	case config.ActionTruck:
		states.AddTruckMovement(v)
	}
}

func run(h *navigation.Handler, st config.ScriptStep) error {
	nav := h.Orbital()
	switch st.Action {
	case config.ActionFocus:
		return nav.SetFocus(st.Target)
	case config.ActionAim:
		return nav.SetAim(st.Target)
	case config.ActionRetargetAnchor:
		nav.StartRetargetAnchor()
	case config.ActionRetargetAim:
		nav.StartRetargetAim()
	case config.ActionLinearFlight:
		nav.SetLinearFlight(true)
	case config.ActionIdle:
		return nav.TriggerIdleBehavior(st.Target)
	case config.ActionStopIdle:
		nav.ApplyIdleBehavior(false)
	case config.ActionFlyTo:
		if err := h.Path().CreatePathToNode(st.Target, st.Value[0]); err != nil {
			return err
		}
		return h.Path().StartPath()
	case config.ActionSaveState:
		return h.SaveNavigationState(st.Target)
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}
