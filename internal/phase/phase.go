// Package phase models the minigame's progression as a pure, total state
// machine: Idle, then alternating Surfaced and Submerged stages until the
// game resolves as a success, a failure or a timeout.
package phase

import "fmt"

type Stage int

const (
	Idle Stage = iota
	Surfaced
	Submerged
	Resolved
	stageCount
)

var stageNames = [...]string{"idle", "surfaced", "submerged", "resolved"}

func (s Stage) String() string {
	if s >= 0 && s < stageCount {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

type Outcome int

const (
	None Outcome = iota
	Success
	Failure
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "none"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// State is the complete phase of one run. It is a value; transitions return
// a new State.
type State struct {
	Stage        Stage   `json:"stage"`
	Outcome      Outcome `json:"outcome"`
	FailedCycles int     `json:"failed_cycles"`
	Storm        int     `json:"storm"`
}

func Initial() State { return State{Stage: Idle} }

func (s State) Terminal() bool { return s.Stage == Resolved }

func (s State) Succeeded() bool { return s.Stage == Resolved && s.Outcome == Success }

func (s State) String() string {
	if s.Stage == Resolved {
		return "resolved(" + s.Outcome.String() + ")"
	}
	return s.Stage.String()
}

type Trigger int

const (
	Noop Trigger = iota
	Start
	EnergyDepleted
	EssenceDepleted
	EnergyRestored
	TimedOut
	triggerCount
)

var triggerNames = [...]string{"noop", "start", "energy_depleted", "essence_depleted", "energy_restored", "timed_out"}

func (t Trigger) String() string {
	if t >= 0 && t < triggerCount {
		return triggerNames[t]
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}
