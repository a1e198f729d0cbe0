package domain

import "errors"

var (
	ErrValidation             = errors.New("validation")               // 400
	ErrNotFound               = errors.New("not found")                // 404
	ErrConflict               = errors.New("conflict")                 // 409, retryable with fresh data
	ErrInvalidStateTransition = errors.New("invalid state transition") // 409, caller bug
	ErrPrecondition           = errors.New("precondition failed")      // 412
)
