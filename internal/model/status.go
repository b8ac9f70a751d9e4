package model

import (
	"errors"
	"fmt"
)

// StateLabel names a discrete settled state of a swipeable component
type StateLabel string

const (
	// StateClosed is the resting state at the track origin
	StateClosed StateLabel = "Closed"

	// StateOpen is the fully revealed state, one travel distance from the origin
	StateOpen StateLabel = "Open"
)

// ErrEmptyLabel is returned when a state label is blank
var ErrEmptyLabel = errors.New("state label is empty")

// String returns the string representation of StateLabel
func (sl StateLabel) String() string {
	return string(sl)
}

// IsOpen returns true if the label is the stock open state
func (sl StateLabel) IsOpen() bool {
	return sl == StateOpen
}

// IsZero returns true if the label is unset
func (sl StateLabel) IsZero() bool {
	return sl == ""
}

// ParseStateLabel converts persisted text back into a label. Any non-empty
// label is accepted; matching is case-sensitive.
func ParseStateLabel(s string) (StateLabel, error) {
	if s == "" {
		return "", ErrEmptyLabel
	}
	return StateLabel(s), nil
}

// Result is the outcome of a guarded transition
type Result int

const (
	// ResultCompleted means the transition landed on the requested anchor
	ResultCompleted Result = iota

	// ResultVetoed means the guard rejected the target and the offset sprang back
	ResultVetoed

	// ResultCancelled means a newer request interrupted the transition
	ResultCancelled
)

// String returns a human-friendly name for the result
func (r Result) String() string {
	switch r {
	case ResultCompleted:
		return "completed"
	case ResultVetoed:
		return "vetoed"
	case ResultCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}
