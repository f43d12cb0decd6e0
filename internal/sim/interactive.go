package sim

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/orbital-nav/internal/config"
	"github.com/Faultbox/orbital-nav/internal/input"
	"github.com/Faultbox/orbital-nav/internal/window"
)

// RunInteractive opens a window and navigates with mouse, keyboard and
// joysticks until the window is closed.
//
//	Esc    quit
//	R / A  retarget anchor / aim
//	N      fly to the next scene node
//	Space  pause or continue the camera path
//	I      toggle idle behavior
//	L      linear flight towards the anchor
//	S      save the navigation state
func (s *Simulator) RunInteractive() error {
	w, err := window.New(window.Config{
		Title:  s.cfg.Window.Title,
		Width:  s.cfg.Window.Width,
		Height: s.cfg.Window.Height,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer w.Close()

	in := input.New()
	defer in.Close()

	ticker := time.NewTicker(s.cfg.FrameTime())
	defer ticker.Stop()

	lastTime := time.Now()
	s.log.Info("starting interactive loop")
	for range ticker.C {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if in.Update() || in.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			break
		}
		s.handleKeys(in)
		s.handler.SetInput(in.State())
		s.Step(dt)

		if s.frame%15 == 0 {
			w.SetTitle(s.title())
		}
	}
	s.log.Info("interactive loop finished", zap.Int("frames", s.frame))
	return nil
}

func (s *Simulator) handleKeys(in *input.Input) {
	nav := s.handler.Orbital()
	paths := s.handler.Path()
	var err error
	switch {
	case in.IsKeyPressed(sdl.SCANCODE_R):
		nav.StartRetargetAnchor()
	case in.IsKeyPressed(sdl.SCANCODE_A):
		nav.StartRetargetAim()
	case in.IsKeyPressed(sdl.SCANCODE_N):
		if err = paths.CreatePathToNode(s.nextNode(), 0); err == nil {
			err = paths.StartPath()
		}
	case in.IsKeyPressed(sdl.SCANCODE_SPACE):
		if paths.IsPlaying() {
			paths.PausePath()
		} else {
			err = paths.ContinuePath()
		}
	case in.IsKeyPressed(sdl.SCANCODE_I):
		if nav.IdleBehaviorActive() {
			nav.ApplyIdleBehavior(false)
		} else {
			err = nav.TriggerIdleBehavior("")
		}
	case in.IsKeyPressed(sdl.SCANCODE_L):
		nav.SetLinearFlight(true)
	case in.IsKeyPressed(sdl.SCANCODE_S):
		file := filepath.Join(config.ConfigDir(), "navigation_state.yaml")
		if err = s.handler.SaveNavigationState(file); err == nil {
			s.log.Info("navigation state saved", zap.String("file", file))
		}
	}
	if err != nil {
		s.log.Warn("command failed", zap.Error(err))
	}
}

// nextNode returns the scene node after the anchor in identifier order.
func (s *Simulator) nextNode() string {
	ids := s.scene.Identifiers()
	if len(ids) == 0 {
		return ""
	}
	anchor := s.handler.Orbital().AnchorIdentifier()
	for i, id := range ids {
		if id == anchor {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

func (s *Simulator) title() string {
	anchor := s.handler.Orbital().Anchor()
	if anchor == nil {
		return s.cfg.Window.Title + " - no anchor"
	}
	dist := s.handler.Camera().Position().Sub(anchor.WorldPosition()).Len()
	return fmt.Sprintf("%s - %s - distance %.3g", s.cfg.Window.Title, anchor.Identifier(), dist)
}
