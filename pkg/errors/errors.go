// Package errors defines the error taxonomy used across the edago library.
//
// All failures are reported through typed errors with constructor functions,
// so callers can branch on the failure class with errors.As while still
// getting a readable message chain through errors.Is / Unwrap:
//
//	_, err := ds.Select("numerix")
//	var selErr *errors.InvalidSelectorError
//	if errors.As(err, &selErr) {
//	    fmt.Println("unknown view:", selErr.Selector)
//	}
//
// Errors are raised immediately at the call that detects the violated
// precondition; there are no retries and no partial recovery.
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// prefix identifies errors originating from this library.
const prefix = "edago"

// Sentinel errors for common failure causes. Wrapped by the typed errors
// below and matchable with errors.Is through any number of wrapping layers.
var (
	// ErrEmptyData indicates that an operation received a table or matrix
	// with zero rows or zero columns.
	ErrEmptyData = crdb.New("empty data")

	// ErrSingularMatrix indicates that a design matrix was singular and the
	// normal equations could not be solved.
	ErrSingularMatrix = crdb.New("singular matrix")

	// ErrNotImplemented indicates a requested capability that the library
	// does not provide.
	ErrNotImplemented = crdb.New("not implemented")
)

// ConstructionError is returned when a Dataset cannot be built because
// neither a data location nor a usable table was supplied.
type ConstructionError struct {
	Message string
	Err     error
}

// NewConstructionError creates a ConstructionError with the given message.
func NewConstructionError(message string) *ConstructionError {
	return &ConstructionError{Message: message}
}

// NewConstructionErrorWrap creates a ConstructionError wrapping a load failure.
func NewConstructionErrorWrap(message string, err error) *ConstructionError {
	return &ConstructionError{Message: message, Err: err}
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: dataset construction: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: dataset construction: %s", prefix, e.Message)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// InvalidSelectorError is returned when a named view tag is not one of the
// recognized tags, or an explicit column list names an unknown column.
type InvalidSelectorError struct {
	Selector string
	Valid    []string
}

// NewInvalidSelectorError creates an InvalidSelectorError for the given tag
// or column name. valid lists the recognized alternatives.
func NewInvalidSelectorError(selector string, valid []string) *InvalidSelectorError {
	return &InvalidSelectorError{Selector: selector, Valid: valid}
}

func (e *InvalidSelectorError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("%s: invalid selector %q", prefix, e.Selector)
	}
	return fmt.Sprintf("%s: invalid selector %q (recognized: %s)",
		prefix, e.Selector, strings.Join(e.Valid, ", "))
}

// PreconditionError is returned when an operation is invoked on a Dataset
// whose state does not satisfy the operation's contract, for example
// stepwise selection while categorical columns remain unencoded, or a split
// before the target has been set.
type PreconditionError struct {
	Op      string
	Message string
}

// NewPreconditionError creates a PreconditionError for the given operation.
func NewPreconditionError(op, message string) *PreconditionError {
	return &PreconditionError{Op: op, Message: message}
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: precondition violated: %s", prefix, e.Op, e.Message)
}

// ModelError wraps a failure inside an estimator operation with the
// operation name and a short description of the cause.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError for the given operation.
func NewModelError(op, message string, err error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

func (e *ModelError) Unwrap() error { return e.Err }

// DimensionError reports a shape mismatch between what an operation
// expected and what it received.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError for the given operation and axis.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: dimension mismatch on axis %d: expected %d, got %d",
		prefix, e.Op, e.Axis, e.Expected, e.Got)
}

// NotFittedError is returned when Transform, Predict or a similar method is
// called on an estimator that has not been fitted yet.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given estimator method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s.%s: estimator is not fitted; call Fit first",
		prefix, e.ModelName, e.Method)
}

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// Recover converts a panic inside an exported operation into an error with
// a captured stack, assigned to *err. Intended for use as:
//
//	func (m *OLS) Fit(X, y mat.Matrix) (err error) {
//	    defer errors.Recover(&err, "OLS.Fit")
//	    ...
//	}
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		*err = crdb.Wrapf(crdb.Newf("panic: %v", r), "%s: %s", prefix, op)
	}
}

// Wrap annotates err with a message, preserving the chain for errors.Is/As.
// It returns nil when err is nil.
func Wrap(err error, message string) error {
	return crdb.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return crdb.Wrapf(err, format, args...)
}

// New creates a plain error with a captured stack.
func New(message string) error { return crdb.New(message) }

// Newf creates a formatted error with a captured stack.
func Newf(format string, args ...interface{}) error {
	return crdb.Newf(format, args...)
}

// Is reports whether any error in the chain matches target.
func Is(err, target error) bool { return crdb.Is(err, target) }

// As finds the first error in the chain matching target's type.
func As(err error, target interface{}) bool { return crdb.As(err, target) }
