package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure independently of its transport code.
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindNotFound     Kind = "NotFoundError"
	KindForbidden    Kind = "ForbiddenError"
	KindUnauthorized Kind = "UnauthorizedError"
	KindInvalidState Kind = "InvalidStateError"
	KindConflict     Kind = "ConflictError"
	KindCapacity     Kind = "CapacityError"
	KindNotAvailable Kind = "NotAvailableError"
	KindInternal     Kind = "InternalError"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int            `json:"code"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Kind: KindForbidden, Message: "You don't have permission to access this resource"}

// Error returns the failure message.
func (e *Failure) Error() string {
	return e.Message
}

// WithDetails returns a copy of the failure carrying the given details.
func (e *Failure) WithDetails(details map[string]any) *Failure {
	clone := *e
	clone.Details = details

	return &clone
}

func newFailure(code int, kind Kind, msg string, details map[string]any) *Failure {
	return &Failure{
		Code:    code,
		Kind:    kind,
		Message: msg,
		Details: details,
	}
}

// BadRequest returns a new validation Failure derived from an error.
func BadRequest(err error) error {
	if err != nil {
		return newFailure(http.StatusBadRequest, KindValidation, err.Error(), nil)
	}

	return nil
}

// BadRequestFromString returns a new validation Failure with message set from string.
func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, KindValidation, msg, nil)
}

// Validation returns a validation Failure, optionally naming the offending field.
func Validation(msg string, field string) error {
	var details map[string]any
	if field != "" {
		details = map[string]any{"field": field}
	}

	return newFailure(http.StatusBadRequest, KindValidation, msg, details)
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, KindUnauthorized, msg, nil)
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return newFailure(http.StatusInternalServerError, KindInternal, err.Error(), nil)
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, KindNotFound, msg, nil)
}

// Conflict returns a new Failure for overlapping or duplicate resources.
func Conflict(msg string, details map[string]any) error {
	return newFailure(http.StatusConflict, KindConflict, msg, details)
}

func Forbidden(msg string, details map[string]any) error {
	return newFailure(http.StatusForbidden, KindForbidden, msg, details)
}

// InvalidState returns a Failure for an operation that the entity's current status does not allow.
func InvalidState(msg string, details map[string]any) error {
	return newFailure(http.StatusConflict, KindInvalidState, msg, details)
}

// Capacity returns a Failure for a party that does not fit the table.
func Capacity(msg string, details map[string]any) error {
	return newFailure(http.StatusUnprocessableEntity, KindCapacity, msg, details)
}

// NotAvailable returns a Failure for a resource that exists but cannot be used right now.
func NotAvailable(msg string, details map[string]any) error {
	return newFailure(http.StatusUnprocessableEntity, KindNotAvailable, msg, details)
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of an error, InternalError for anything that is not a Failure.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return KindInternal
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// GetDetails returns the structured details of a Failure, nil otherwise.
func GetDetails(err error) map[string]any {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Details
	}

	return nil
}
