package domain

import "errors"

var (
	// Startup and ingress failures
	ErrConfiguration   = errors.New("invalid configuration")
	ErrMalformedUpdate = errors.New("malformed update")
	ErrNotInitialized  = errors.New("bot not initialized")

	// Dispatch and delivery
	ErrDispatch        = errors.New("unexpected update shape")
	ErrDelivery        = errors.New("delivery failed")
	ErrInvalidArgument = errors.New("invalid argument")
)
