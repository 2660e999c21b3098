// Package errs defines the tagged error-kind model shared by the solver
// and generator, so hosts can branch on a stable Kind rather than string
// matching.
package errs

import "errors"

// Kind is one of the fixed error kinds a caller may see. It is a tag, not
// an exception type: every Kind maps to exactly one sentinel error below,
// and every returned *Error carries one.
type Kind string

const (
	InvalidConfig    Kind = "invalid_config"
	NoShapesFit      Kind = "no_shapes_fit"
	NoPlacement      Kind = "no_placement"
	NoRequirements   Kind = "no_requirements"
	NoSolution       Kind = "no_solution"
	DeadlineExceeded Kind = "deadline_exceeded"
	DuplicateShapeID Kind = "duplicate_shape_id"
)

// Sentinel errors, one per Kind, so errors.Is works against a stable
// value in addition to errors.As against Kind.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrNoShapesFit      = errors.New("no shape fit the remaining budget")
	ErrNoPlacement      = errors.New("no valid placement exists")
	ErrNoRequirements   = errors.New("all requirements are zero")
	ErrNoSolution       = errors.New("no solution found")
	ErrDeadlineExceeded = errors.New("deadline exceeded")
	ErrDuplicateShapeID = errors.New("duplicate shape id")
)

var sentinelByKind = map[Kind]error{
	InvalidConfig:    ErrInvalidConfig,
	NoShapesFit:      ErrNoShapesFit,
	NoPlacement:      ErrNoPlacement,
	NoRequirements:   ErrNoRequirements,
	NoSolution:       ErrNoSolution,
	DeadlineExceeded: ErrDeadlineExceeded,
	DuplicateShapeID: ErrDuplicateShapeID,
}

// Error is a tagged, informational error: Msg is free text for humans,
// Kind is the stable tag callers branch on.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

// Unwrap exposes the Kind's sentinel so errors.Is(err, errs.ErrNoSolution)
// works on a wrapped *Error without the caller needing KindOf.
func (e *Error) Unwrap() error {
	return sentinelByKind[e.Kind]
}

// New constructs a tagged error with the given kind and message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf extracts the Kind from err, if it (or something it wraps) is an
// *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
