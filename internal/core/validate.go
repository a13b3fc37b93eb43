// AngelaMos | 2026
// validate.go

package core

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

var clockTimePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// NewValidator returns a validator with the hhmm and isodate tags registered.
// Field errors name the JSON key rather than the Go field.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsClockTime(fl.Field().String())
	})

	//nolint:errcheck // tag names are static and valid
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})

	return v
}

func IsClockTime(s string) bool {
	return clockTimePattern.MatchString(s)
}

// IsUUID reports whether a path parameter can name a stored row.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
