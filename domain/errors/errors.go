// Package errors provides the typed error taxonomy of the add-in.
// All error types support unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/cdsmodel/cellbridge/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by every error type in this package so that
// new error types can describe themselves without touching ToErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// MissingRequiredError reports a mandatory parameter supplied as Missing.
type MissingRequiredError struct {
	Param string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("%s parameter is required", e.Param)
}

// ToErrorDetail implements DetailedError.
func (e *MissingRequiredError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "marshal", Code: "missing_required"}
}

// ArityError reports an element count that does not match the expected one.
// Scalar is set when an array was passed where a single value is expected.
type ArityError struct {
	Param    string
	Expected int
	Actual   int
	Scalar   bool
}

func (e *ArityError) Error() string {
	if e.Scalar {
		return fmt.Sprintf("%s scalar value is required, got %d cells", e.Param, e.Actual)
	}
	return fmt.Sprintf("%s - incorrect number of elements, expected %d, got %d", e.Param, e.Expected, e.Actual)
}

// ToErrorDetail implements DetailedError.
func (e *ArityError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message: e.Error(),
		Type:    "marshal",
		Code:    "arity",
		Details: map[string]any{"expected": e.Expected, "actual": e.Actual},
	}
}

// TypeError reports a value that cannot convert to the requested type.
type TypeError struct {
	Err    error
	Param  string
	Want   string
	Actual entities.Kind
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s - cannot convert %s to %s: %v", e.Param, e.Actual, e.Want, e.Err)
	}
	return fmt.Sprintf("%s - cannot convert %s to %s", e.Param, e.Actual, e.Want)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *TypeError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "marshal", Code: "type_" + e.Want}
}

// InvalidDateOrIntervalError reports an input that is neither a literal date
// nor a resolvable tenor. Index is 1-based within an array parameter.
type InvalidDateOrIntervalError struct {
	Err   error
	Param string
	Input string
	Index int
}

func (e *InvalidDateOrIntervalError) Error() string {
	return fmt.Sprintf("%s - invalid interval for element[%d] (%q)", e.Param, e.Index, e.Input)
}

func (e *InvalidDateOrIntervalError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *InvalidDateOrIntervalError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "marshal", Code: "date_or_interval"}
}

// NotFoundError reports a handle that is not held by the object registry.
type NotFoundError struct {
	Handle string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object %q not found", e.Handle)
}

// ToErrorDetail implements DetailedError.
func (e *NotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "lookup", Code: "not_found", IsNotFound: true}
}

// ExhaustedError reports an arena allocation that would exceed capacity.
type ExhaustedError struct {
	Requested int // Requested allocation size
	Offset    int // Bytes already handed out
	Capacity  int // Fixed arena capacity
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("arena exhausted: requested %d bytes, offset %d bytes, capacity %d bytes",
		e.Requested, e.Offset, e.Capacity)
}

// ToErrorDetail implements DetailedError.
func (e *ExhaustedError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "resource", Code: "arena_exhausted"}
}

// AllocationError reports that the object registry could not take a new object.
type AllocationError struct {
	Err  error
	Name string
}

func (e *AllocationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cannot store object %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("cannot store object: %v", e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *AllocationError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "resource", Code: "registry_full"}
}

// RegistrationLimitError reports a function descriptor that breaks a host limit.
type RegistrationLimitError struct {
	Function string
	Limit    string
	Max      int
	Actual   int
}

func (e *RegistrationLimitError) Error() string {
	switch e.Limit {
	case "arguments":
		return fmt.Sprintf("%s: Too many arguments (%d), maximum = %d", e.Function, e.Actual, e.Max)
	case "argument_names":
		return fmt.Sprintf("%s: Argument names are too long. Maximum length = %d", e.Function, e.Max)
	default:
		return fmt.Sprintf("%s: %s exceeds host limit (%d > %d)", e.Function, e.Limit, e.Actual, e.Max)
	}
}

// ToErrorDetail implements DetailedError.
func (e *RegistrationLimitError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:  e.Error(),
		Type:     "registration",
		Code:     "limit_" + e.Limit,
		Function: e.Function,
	}
}

// EngineError reports a failure inside the analytics engine.
type EngineError struct {
	Err     error
	Routine string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Routine, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *EngineError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "engine", Code: e.Routine}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// WireFormatError represents a wire format encoding/decoding error.
type WireFormatError struct {
	Err       error
	Operation string
	Type      string
}

func (e *WireFormatError) Error() string {
	return fmt.Sprintf("wire format %s failed for %s: %v", e.Operation, e.Type, e.Err)
}

func (e *WireFormatError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *WireFormatError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "wire_format"}
}
