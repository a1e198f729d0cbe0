package domain

import (
	"fmt"
	"strings"
)

type DeliveryStatus string

const (
	StatusCreated    DeliveryStatus = "CREATED"
	StatusProcessing DeliveryStatus = "PROCESSING"
	StatusShipped    DeliveryStatus = "SHIPPED"
	StatusCompleted  DeliveryStatus = "COMPLETED"
	StatusCancelled  DeliveryStatus = "CANCELLED"
)

// transitions lists every legal single step. Anything absent is rejected,
// which makes COMPLETED and CANCELLED terminal.
var transitions = map[DeliveryStatus][]DeliveryStatus{
	StatusCreated:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusCompleted},
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	st := DeliveryStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusCreated, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown delivery status %q", ErrValidation, s)
}

func (s DeliveryStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Editable reports whether delivery details may still change.
func (s DeliveryStatus) Editable() bool {
	return s == StatusCreated || s == StatusProcessing
}

func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CheckTransition(from, to DeliveryStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, from, to)
	}
	return nil
}
