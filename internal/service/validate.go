package service

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a validator/v10 instance and converts its output into
// ValidationErrors keyed by the field's json name, so a failing request
// reports every violated field at once.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds the shared validator. It registers the custom
// "timeofday" rule for HH:MM / HH:MM:SS strings and uses json tag names
// in error output.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, ok := NormalizeTimeOfDay(fl.Field().String())
		return ok
	})
	return &Validator{validate: v}
}

// Struct validates the tagged fields of input and returns nil or a
// ValidationErrors listing every violation.
func (v *Validator) Struct(input interface{}) ValidationErrors {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(invalid))
	for _, fe := range invalid {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "timeofday":
		return "must be a time of day in HH:MM format"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// NormalizeTimeOfDay parses "HH:MM" or "HH:MM:SS" and returns the
// zero-padded "HH:MM:SS" form, which is both what MySQL TIME columns
// return and what the string overlap comparison relies on.
func NormalizeTimeOfDay(s string) (string, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), true
		}
	}
	return "", false
}
