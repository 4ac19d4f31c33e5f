package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"restopos/shared/constant"
	"restopos/shared/failure"
	"restopos/shared/timezone"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *val.Validate

func registerMimetypeValidation(field val.FieldLevel) bool {
	file, ok := fileHeader(field)
	if !ok {
		return false
	}

	allowedTypes := strings.Split(field.Param(), " ")

	return slices.Contains(allowedTypes, file.Header.Get(constant.RequestHeaderContentType))
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	file, ok := fileHeader(field)
	if !ok {
		return false
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	bytesConversion := 1024.0
	maxSizeBytes := int64(maxSizeMB * bytesConversion * bytesConversion)

	return file.Size <= maxSizeBytes
}

func fileHeader(field val.FieldLevel) (*multipart.FileHeader, bool) {
	switch file := field.Field().Interface().(type) {
	case *multipart.FileHeader:
		return file, file != nil
	case multipart.FileHeader:
		return &file, true
	default:
		return nil, false
	}
}

func registerClockValidation(field val.FieldLevel) bool {
	value := field.Field().String()
	if len(value) != len(constant.ClockFormat) {
		return false
	}

	_, err := timezone.ParseClock(value)

	return err == nil
}

func registerDateValidation(field val.FieldLevel) bool {
	_, err := timezone.ParseDate(field.Field().String())

	return err == nil
}

// decimals are validated by their float value so gte/lte tags apply to money fields.
func decimalValue(field reflect.Value) any {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.InexactFloat64()
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}

		return d.Decimal.InexactFloat64()
	}

	return nil
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	for tag, fn := range map[string]val.Func{
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
		"hhmm":        registerClockValidation,
		"isodate":     registerDateValidation,
	} {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg, field := message(err)

		return failure.Validation(msg, field) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg, _ := message(err)

		return failure.Validation(msg, "") //nolint:wrapcheck
	}

	return nil
}
