package system

import (
	"fmt"

	"github.com/milk9111/glyphfall/physics"
)

type StepperState int

const (
	NotStarted StepperState = iota
	Stepping
)

func (s StepperState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Stepping:
		return "stepping"
	default:
		return fmt.Sprintf("StepperState(%d)", int(s))
	}
}

// Stepper advances a world by one fixed timestep per frame.
type Stepper struct {
	world *physics.World
	state StepperState
}

func NewStepper(w *physics.World) *Stepper {
	return &Stepper{world: w}
}

// Step runs exactly one physics step.
func (s *Stepper) Step() error {
	if err := s.world.Step(); err != nil {
		return fmt.Errorf("stepper: %w", err)
	}
	s.state = Stepping
	return nil
}

func (s *Stepper) State() StepperState {
	return s.state
}

// Steps returns the number of completed steps.
func (s *Stepper) Steps() uint64 {
	return s.world.Steps()
}

func (s *Stepper) World() *physics.World {
	return s.world
}
