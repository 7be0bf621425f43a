package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"msme-risk/domain"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a submission falls outside the collector's bounds.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateInputs checks every field against its collector range.
// The scorer itself accepts anything; this is for callers that store submissions.
func ValidateInputs(inputs domain.RiskInputs) error {
	var fields []FieldError

	// non-finite values get their own message instead of a range error
	v := reflect.ValueOf(inputs)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if v.Field(i).Kind() != reflect.Float64 {
			continue
		}
		f := v.Field(i).Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
			fields = append(fields, FieldError{Field: name, Message: "must be a finite number"})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	err := inputValidator().Struct(inputs)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate inputs: %w", err)
	}
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return &ValidationError{Fields: fields}
}

// ValidateSubmission validates the MSME name and the inputs together.
func ValidateSubmission(name string, inputs domain.RiskInputs) error {
	var fields []FieldError

	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	case utf8.RuneCountInString(trimmed) > MaxNameLength:
		fields = append(fields, FieldError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)})
	}

	if err := ValidateInputs(inputs); err != nil {
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		fields = append(fields, ve.Fields...)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag()
	}
}
