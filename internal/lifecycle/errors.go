package lifecycle

import (
	"errors"
)

var (
	// ErrDuplicateName is returned when creating an instance whose name
	// is already tracked locally.
	ErrDuplicateName = errors.New("instance name already exists")
	// ErrUnknownInstance is returned when an operation targets a name
	// that is not in the registry.
	ErrUnknownInstance = errors.New("instance not found")
)
