package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"gt":          "{field} must be greater than {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"uuid":        "{field} must be a valid id",
		"url":         "{field} must be a valid url",
		"hhmm":        "{field} must be a 24h time formatted as HH:MM",
		"isodate":     "{field} must be a date formatted as YYYY-MM-DD",
		"mimetypes":   "{field} must be one of {param}",
		"maxfilesize": "{field} must not exceed {param} MB",
		"ltefield":    "{field} must be less than or equal to {param}",
		"required_if": "{field} is required",
	}
)

// message renders the first failing rule and returns the offending field name.
func message(err error) (string, string) {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			field := valErr.Field()

			errStr := messages[valErr.Tag()]
			if errStr != "" {
				errStr = strings.ReplaceAll(errStr, "{field}", field)
				errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

				return errStr, field
			}

			return valErr.Error(), field
		}

		return valErrors.Error(), ""
	}

	return err.Error(), ""
}
