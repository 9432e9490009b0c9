package edgegrid

import "errors"

// Configuration parse errors.
var (
	// ErrMalformedField is returned when a configuration token is not of
	// the form key:value, or a field value fails to parse.
	ErrMalformedField = errors.New("edgegrid: malformed configuration field")

	// ErrUnknownField is returned when a configuration line carries an
	// unrecognized field key.
	ErrUnknownField = errors.New("edgegrid: unknown configuration field")

	// ErrDuplicateField is returned when a scalar field appears more than
	// once on a single configuration line.
	ErrDuplicateField = errors.New("edgegrid: duplicate configuration field")
)

// Credential resolution errors.
var (
	// ErrSectionNotFound is returned when the requested configuration
	// section does not exist.
	ErrSectionNotFound = errors.New("edgegrid: configuration section not found")

	// ErrNoHostMatch is returned when no credential in the section applies
	// to the request host.
	ErrNoHostMatch = errors.New("edgegrid: no applicable configuration for host")

	// ErrMissingField is returned when the credential selected for a host
	// lacks a required field.
	ErrMissingField = errors.New("edgegrid: required credential field missing")
)

// Usage errors.
var (
	// ErrConflictingBody is returned when more than one body source is
	// supplied for a single request.
	ErrConflictingBody = errors.New("edgegrid: more than one body source supplied")

	// ErrConflictingMethod is returned when more than one request method
	// is supplied for a single request.
	ErrConflictingMethod = errors.New("edgegrid: more than one request method supplied")
)
