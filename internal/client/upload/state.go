package upload

import (
	"errors"
	"fmt"
	"slices"
)

type State int

const (
	Idle State = iota
	Authorizing
	Transferring
	Resolving
	Published
	Failed
	Deleted
)

var stateNames = [...]string{"idle", "authorizing", "transferring", "resolving", "published", "failed", "deleted"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// InFlight reports whether a job in s is still talking to the services.
func (s State) InFlight() bool {
	return s == Authorizing || s == Transferring || s == Resolving
}

var transitions = map[State][]State{
	Idle:         {Authorizing, Deleted},
	Authorizing:  {Transferring, Failed},
	Transferring: {Resolving, Failed},
	Resolving:    {Published, Failed},
	Published:    {Deleted, Idle},
	Failed:       {Idle},
	Deleted:      {Idle},
}

var (
	ErrInvalidTransition = errors.New("invalid upload state transition")
	// ErrBusy is returned while a previous job is still in flight.
	ErrBusy = errors.New("an upload is already in progress")
)

func (s State) CanTransition(to State) bool {
	return slices.Contains(transitions[s], to)
}

func transition(from, to State) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
