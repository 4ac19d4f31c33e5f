package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	errUnsupportedJSONBSource = errors.New("unsupported jsonb source")
	jsonNull                  = []byte("null")
)

// JSONB stores an arbitrary value in a Postgres jsonb column.
type JSONB[T any] struct {
	Val T
}

func NewJSONB[T any](val T) JSONB[T] {
	return JSONB[T]{Val: val}
}

// Value implements driver.Valuer. A nil value is stored as SQL NULL.
func (j JSONB[T]) Value() (driver.Value, error) {
	raw, err := json.Marshal(j.Val)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb value: %w", err)
	}

	if bytes.Equal(raw, jsonNull) {
		return nil, nil
	}

	return raw, nil
}

// Scan implements sql.Scanner.
func (j *JSONB[T]) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		var zero T
		j.Val = zero

		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedJSONBSource, src)
	}

	if err := json.Unmarshal(raw, &j.Val); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb value: %w", err)
	}

	return nil
}

func (j JSONB[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Val) //nolint:wrapcheck
}

func (j *JSONB[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Val) //nolint:wrapcheck
}
