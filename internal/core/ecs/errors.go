package ecs

import "errors"

// Core ecs errors
var (
	// Entity lifecycle errors

	ErrEntityNotLive  = errors.New("entity is not live")
	ErrEntityNotFound = errors.New("entity not found")
	ErrWorldLive      = errors.New("world still has live entities")

	// Component errors

	ErrMisconfiguredComponent = errors.New("misconfigured component")
	ErrComponentIndex         = errors.New("component index out of range")

	// Event errors

	ErrInvalidEvent = errors.New("invalid event")

	// Query errors

	ErrCapabilityMissing = errors.New("capability missing")
)
