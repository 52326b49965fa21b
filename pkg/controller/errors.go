package controller

import "errors"

// Controller errors.
var (
	// ErrRailExists indicates a rail is already registered under the name.
	ErrRailExists = errors.New("rail already registered")

	// ErrRailNotFound indicates no rail is registered under the name.
	ErrRailNotFound = errors.New("rail not found")

	// ErrAlwaysOn indicates a release would power down an always-on rail.
	ErrAlwaysOn = errors.New("rail is always-on")

	// ErrUnbalancedRelease indicates a release without a matching acquire.
	ErrUnbalancedRelease = errors.New("unbalanced release")
)
