package queue

import (
	"fmt"
	"strings"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusOngoing, StatusCancelled},
	StatusOngoing:   {StatusDone, StatusCancelled},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusScheduled, StatusOngoing, StatusDone, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("status %q: %w", s, ErrInvalidStatus)
}

// Terminal reports whether the appointment left the day for good.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransition valida a máquina de estados.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%s -> %s: %w", from, to, ErrInvalidTransition)
}
