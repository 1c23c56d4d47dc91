package workflow

import (
	"context"
	"errors"
	"strings"
)

// State is a lifecycle state shared by timesheets, leave requests and
// payroll periods.
type State string

const (
	StateDraft      State = "draft"
	StatePending    State = "pending"
	StateSubmitted  State = "submitted"
	StateApproved   State = "approved"
	StateRejected   State = "rejected"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
)

var (
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrReasonRequired    = errors.New("a rejection reason is required")
)

// transitions lists the allowed edges. Approved, rejected and completed
// are terminal.
var transitions = map[State][]State{
	StateDraft:      {StateSubmitted, StateProcessing},
	StateSubmitted:  {StateApproved, StateRejected},
	StatePending:    {StateApproved, StateRejected},
	StateProcessing: {StateCompleted},
}

// CanTransition reports whether the edge current->target exists.
func CanTransition(current, target State) bool {
	for _, next := range transitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// Transition validates the edge and, for rejections, the mandatory reason.
func Transition(current, target State, reason string) error {
	if !CanTransition(current, target) {
		return ErrInvalidTransition
	}
	if target == StateRejected && strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

// IsTerminal reports whether no transition leaves the state.
func IsTerminal(s State) bool {
	return len(transitions[s]) == 0
}

// BulkResult carries the outcome of one item of a bulk operation.
type BulkResult struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// BulkOutcome aggregates a bulk approve/reject run.
type BulkOutcome struct {
	Succeeded []string     `json:"succeeded"`
	Failed    []BulkResult `json:"failed"`
}

// BulkApply runs fn for each id, collecting per-item failures instead of
// aborting on the first one. A cancelled context stops the loop between
// items; already-applied items stay applied.
func BulkApply(ctx context.Context, ids []string, fn func(ctx context.Context, id string) error) BulkOutcome {
	outcome := BulkOutcome{Succeeded: make([]string, 0, len(ids))}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			outcome.Failed = append(outcome.Failed, BulkResult{ID: id, Error: err.Error()})
			continue
		}
		if err := fn(ctx, id); err != nil {
			outcome.Failed = append(outcome.Failed, BulkResult{ID: id, Error: err.Error()})
			continue
		}
		outcome.Succeeded = append(outcome.Succeeded, id)
	}

	return outcome
}
