package domain

import "fmt"

type transition struct {
	from TaskStatus
	to   TaskStatus
}

// forbiddenTransitions lists the edges of the task status graph that are
// rejected regardless of actor. Every other move, including a no-op, is legal.
var forbiddenTransitions = map[transition]string{
	{from: TaskPending, to: TaskCompleted}:  "cannot skip directly to completed",
	{from: TaskReview, to: TaskInProgress}: "cannot regress from review",
}

// ValidateTaskTransition fails with a validation error naming both states when
// the move from current to next is forbidden.
func ValidateTaskTransition(current, next TaskStatus) error {
	if reason, ok := forbiddenTransitions[transition{from: current, to: next}]; ok {
		return Validation(fmt.Sprintf("illegal status transition %s -> %s: %s", current, next, reason))
	}
	return nil
}
