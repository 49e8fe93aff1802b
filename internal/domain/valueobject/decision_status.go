package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidStatusTransition is returned when a decision is applied to an
// application that already has one.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// DecisionStatus is the lifecycle state of a loan application.
type DecisionStatus struct {
	value string
}

const (
	decisionPending  = "PENDING"
	decisionApproved = "APPROVED"
	decisionRejected = "REJECTED"
)

var (
	DecisionStatusPending  = DecisionStatus{value: decisionPending}
	DecisionStatusApproved = DecisionStatus{value: decisionApproved}
	DecisionStatusRejected = DecisionStatus{value: decisionRejected}
)

var validDecisionStatuses = map[string]DecisionStatus{
	decisionPending:  DecisionStatusPending,
	decisionApproved: DecisionStatusApproved,
	decisionRejected: DecisionStatusRejected,
}

// NewDecisionStatus creates a DecisionStatus from a raw string.
func NewDecisionStatus(s string) (DecisionStatus, error) {
	v, ok := validDecisionStatuses[s]
	if !ok {
		return DecisionStatus{}, fmt.Errorf("invalid decision status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s DecisionStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s DecisionStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s DecisionStatus) Equal(other DecisionStatus) bool { return s.value == other.value }

// IsTerminal reports whether no further transition is allowed.
func (s DecisionStatus) IsTerminal() bool {
	return s.value == decisionApproved || s.value == decisionRejected
}
