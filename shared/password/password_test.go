package password_test

import (
	"restopos/shared/password"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid password", input: "validPassword123"},
		{name: "empty password", input: "", wantErr: password.ErrEmptyPassword},
		{name: "short password", input: "abc", wantErr: password.ErrPasswordTooShort},
		{name: "long password", input: strings.Repeat("a", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.input, hash)
			assert.NoError(t, password.Verify(tt.input, hash))
		})
	}
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("kitchen-secret")
	require.NoError(t, err)

	assert.NoError(t, password.Verify("kitchen-secret", hash))
	assert.ErrorIs(t, password.Verify("wrong-secret", hash), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("", hash), password.ErrInvalidPassword)
	assert.ErrorIs(t, password.Verify("kitchen-secret", ""), password.ErrInvalidPassword)
}
