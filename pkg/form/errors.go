package form

import "errors"

var (
	// ErrUnknownField is returned when a mutation targets a name the form does
	// not carry.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrUnknownOption is returned when a select, radio group or multi-select
	// receives a value outside its options.
	ErrUnknownOption = errors.New("form: unknown option")
	// ErrKindMismatch is returned when a mutation does not fit the field kind,
	// such as attaching a file to a text input.
	ErrKindMismatch = errors.New("form: operation does not match field kind")
	// ErrDuplicateField is returned when Add would introduce a second element
	// with an existing name outside a radio group.
	ErrDuplicateField = errors.New("form: duplicate field")
)
