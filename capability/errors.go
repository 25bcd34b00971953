package capability

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the registry is consulted before
	// Initialize. It indicates a programming error in the embedding code.
	ErrNotInitialized = errors.New("capability registry not initialized")

	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("capability registry already initialized")

	// ErrUnknownCapability is matched by UnknownCapabilityError.
	ErrUnknownCapability = errors.New("unknown capability")
)

// UnknownCapabilityError reports a capability referenced but never declared.
type UnknownCapabilityError struct {
	Name Name
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("capability %q is not declared", string(e.Name))
}

// Is allows errors.Is(err, ErrUnknownCapability).
func (e *UnknownCapabilityError) Is(target error) bool {
	return target == ErrUnknownCapability
}
