package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"restopos/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	assert.Equal(t, "test error message", f.Error())
}

func TestConstructors(t *testing.T) {
	details := map[string]any{"table": "T1"}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind failure.Kind
	}{
		{
			name:     "validation",
			err:      failure.Validation("customer_name is required", "customer_name"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindValidation,
		},
		{
			name:     "bad request from string",
			err:      failure.BadRequestFromString("bad"),
			wantCode: http.StatusBadRequest,
			wantKind: failure.KindValidation,
		},
		{
			name:     "not found",
			err:      failure.NotFound("table not found"),
			wantCode: http.StatusNotFound,
			wantKind: failure.KindNotFound,
		},
		{
			name:     "forbidden",
			err:      failure.Forbidden("role cannot set status", details),
			wantCode: http.StatusForbidden,
			wantKind: failure.KindForbidden,
		},
		{
			name:     "invalid state",
			err:      failure.InvalidState("cannot occupy", details),
			wantCode: http.StatusConflict,
			wantKind: failure.KindInvalidState,
		},
		{
			name:     "conflict",
			err:      failure.Conflict("overlap", details),
			wantCode: http.StatusConflict,
			wantKind: failure.KindConflict,
		},
		{
			name:     "capacity",
			err:      failure.Capacity("party too large", details),
			wantCode: http.StatusUnprocessableEntity,
			wantKind: failure.KindCapacity,
		},
		{
			name:     "not available",
			err:      failure.NotAvailable("item unavailable", details),
			wantCode: http.StatusUnprocessableEntity,
			wantKind: failure.KindNotAvailable,
		},
		{
			name:     "unauthorized",
			err:      failure.Unauthorized("token expired"),
			wantCode: http.StatusUnauthorized,
			wantKind: failure.KindUnauthorized,
		},
		{
			name:     "internal",
			err:      failure.InternalError(errors.New("db down")),
			wantCode: http.StatusInternalServerError,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
			assert.Equal(t, tt.wantKind, failure.GetKind(tt.err))
			assert.True(t, failure.IsKind(tt.err, tt.wantKind))
		})
	}
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to create reservation: %w", failure.Conflict("overlap", nil))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, failure.KindConflict, failure.GetKind(wrapped))
}

func TestGetKind_PlainError(t *testing.T) {
	assert.Equal(t, failure.KindInternal, failure.GetKind(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("boom")))
	assert.Nil(t, failure.GetDetails(errors.New("boom")))
}

func TestWithDetails(t *testing.T) {
	base := failure.ForbiddenError
	withDetails := base.WithDetails(map[string]any{"role": "cashier"})

	assert.Nil(t, base.Details)
	assert.Equal(t, "cashier", withDetails.Details["role"])
	assert.Equal(t, base.Code, withDetails.Code)
	assert.Equal(t, map[string]any{"role": "cashier"}, failure.GetDetails(withDetails))
}

func TestValidation_FieldDetail(t *testing.T) {
	err := failure.Validation("party_size is required", "party_size")
	assert.Equal(t, "party_size", failure.GetDetails(err)["field"])

	err = failure.Validation("bad input", "")
	assert.Nil(t, failure.GetDetails(err))
}
