package bind

import "errors"

// Domain errors for binding and type handling.
var (
	// ErrBlankBinding is returned when a binding spec is blank.
	ErrBlankBinding = errors.New("binding spec must not be blank")

	// ErrDuplicateType is returned when two distinct Go types claim the
	// same domain type name.
	ErrDuplicateType = errors.New("conflicting domain types with same name")
)
