package tempoross

import (
	"errors"
	"fmt"
)

type ActionKind int

const (
	Fish ActionKind = iota
	Cook
	Deposit
	Repair
	Douse
	Harpoon
	FireCannons
	actionKindCount
)

var actionNames = [actionKindCount]string{"fish", "cook", "deposit", "repair", "douse", "harpoon", "fire_cannons"}

func (k ActionKind) String() string {
	if k >= 0 && k < actionKindCount {
		return actionNames[k]
	}
	return fmt.Sprintf("action(%d)", int(k))
}

func (k ActionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Action is a queued unit of work. Target indexes the spot, cannon, mast,
// totem or pool the action refers to; it is ignored by Cook and FireCannons.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Target int        `json:"target"`
}

// NPC reports whether the action belongs to the game rather than the player.
func (a Action) NPC() bool { return a.Kind == FireCannons }

func (a Action) String() string {
	switch a.Kind {
	case Cook, FireCannons:
		return a.Kind.String()
	}
	return fmt.Sprintf("%s[%d]", a.Kind, a.Target)
}

var (
	ErrUnknownTarget = errors.New("action refers to a nonexistent target")
	ErrUnknownAction = errors.New("unknown action kind")
)

// ActionError is a malformed action. It ends the run that produced it.
type ActionError struct {
	Action Action
	Tick   int
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("tick %d: %s: %v", e.Tick, e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
