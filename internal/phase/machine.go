package phase

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidTransition = errors.New("phase: no transition defined")

// InvalidTransitionError means a stage or trigger outside the known set
// reached the machine. Every known pair has a transition, so this is a bug.
type InvalidTransitionError struct {
	From    State
	Trigger Trigger
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("phase: no transition from %s on %s", e.From.Stage, e.Trigger)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

type Machine struct {
	// EnrageCycles is the number of times the boss may recover its energy
	// before the game is lost.
	EnrageCycles int
	// MaxStorm caps State.Storm.
	MaxStorm int
}

func (m Machine) Transition(s State, t Trigger) (State, error) {
	if s.Stage < 0 || s.Stage >= stageCount || t < 0 || t >= triggerCount {
		return s, &InvalidTransitionError{From: s, Trigger: t}
	}
	if s.Stage == Resolved {
		return s, nil
	}
	if t == TimedOut {
		return resolve(s, Timeout), nil
	}

	switch s.Stage {
	case Idle:
		if t == Start {
			s.Stage = Surfaced
		}
	case Surfaced:
		if t == EnergyDepleted {
			s.Stage = Submerged
		}
	case Submerged:
		switch t {
		case EssenceDepleted:
			return resolve(s, Success), nil
		case EnergyRestored:
			s.FailedCycles++
			if s.FailedCycles >= m.EnrageCycles {
				return resolve(s, Failure), nil
			}
			s.Stage = Surfaced
			if s.Storm < m.MaxStorm {
				s.Storm++
			}
		}
	}
	return s, nil
}

func resolve(s State, o Outcome) State {
	s.Stage = Resolved
	s.Outcome = o
	return s
}

// precedence orders simultaneous triggers: failure, then success, then
// progress, then timeout. A refill only counts as failure when it uses up
// the last cycle; otherwise a same-tick defeat of the boss wins.
var precedence = [triggerCount]int{
	EnergyRestored:  0,
	EssenceDepleted: 1,
	Start:           2,
	EnergyDepleted:  3,
	TimedOut:        4,
	Noop:            5,
}

// Resolve applies triggers raised within one tick in precedence order and
// stops at the first terminal state.
func (m Machine) Resolve(s State, triggers ...Trigger) (State, error) {
	if len(triggers) == 0 {
		return s, nil
	}
	ordered := append([]Trigger(nil), triggers...)
	for _, t := range ordered {
		if t < 0 || t >= triggerCount {
			return s, &InvalidTransitionError{From: s, Trigger: t}
		}
	}
	rank := precedence
	if s.FailedCycles+1 < m.EnrageCycles {
		rank[EnergyRestored], rank[EssenceDepleted] = rank[EssenceDepleted], rank[EnergyRestored]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank[ordered[i]] < rank[ordered[j]]
	})

	var err error
	for _, t := range ordered {
		if s, err = m.Transition(s, t); err != nil {
			return s, err
		}
		if s.Terminal() {
			break
		}
	}
	return s, nil
}

// Change is one recorded stage change.
type Change struct {
	Tick int   `json:"tick"`
	From State `json:"from"`
	To   State `json:"to"`
}

type History []Change

// Record appends a change when from and to differ and reports whether it did.
func (h *History) Record(tick int, from, to State) bool {
	if from == to {
		return false
	}
	*h = append(*h, Change{Tick: tick, From: from, To: to})
	return true
}

// Resolutions counts entries that enter the Resolved stage.
func (h History) Resolutions() int {
	n := 0
	for _, c := range h {
		if c.To.Stage == Resolved && c.From.Stage != Resolved {
			n++
		}
	}
	return n
}
