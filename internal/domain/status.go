package domain

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// TerminalStatuses never count towards a vehicle's committed load.
var TerminalStatuses = []Status{StatusCompleted, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPlanned:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}
