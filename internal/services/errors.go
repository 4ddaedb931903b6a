package services

import "errors"

// Common service errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCommand      = errors.New("invalid command")
	ErrDuplicate           = errors.New("duplicate record")
	ErrAccountDisabled     = errors.New("account is disabled")
	ErrCreditLimitExceeded = errors.New("posting would exceed the school's credit limit")
)
