package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"restopos/shared/constant"
	"restopos/shared/failure"
	"restopos/shared/logger"
)

const internalErrorMessage = "internal server error"

type Data[T any] struct {
	Success bool `json:"success"`
	Data    *T   `json:"data,omitempty"`
}

type Error struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Kind    failure.Kind   `json:"kind"`
	Errors  []string       `json:"errors,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type Message struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Success: code < http.StatusBadRequest, Message: &message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Success: true, Data: &jsonPayload})
}

// WithError sends a response carrying the failure kind and details. Errors that are not a
// failure.Failure are reported as internal without leaking their message.
func WithError(writer http.ResponseWriter, err error) {
	response(writer, failure.GetCode(err), FromError(err))
}

// FromError builds the error envelope for err.
func FromError(err error) Error {
	var fail *failure.Failure
	if !errors.As(err, &fail) {
		return Error{Message: internalErrorMessage, Kind: failure.KindInternal}
	}

	res := Error{
		Message: fail.Message,
		Kind:    fail.Kind,
		Details: fail.Details,
	}

	if fail.Kind == failure.KindValidation {
		res.Errors = []string{fail.Message}
	}

	return res
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
