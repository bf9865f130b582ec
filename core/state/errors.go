package state

import "errors"

var (
	// ErrCausality is returned when a sample is written at or before the
	// latest recorded sample of a profile.
	ErrCausality = errors.New("state: causality violation")
	// ErrUnknownKey is returned when a key was never declared in the state.
	ErrUnknownKey = errors.New("state: unknown state variable key")
	// ErrKeyType is returned when a key is used with a different value type
	// than it was declared with.
	ErrKeyType = errors.New("state: state variable type mismatch")
	// ErrEmptyProfile is returned when a declared key holds no sample yet.
	ErrEmptyProfile = errors.New("state: profile has no samples")
)
