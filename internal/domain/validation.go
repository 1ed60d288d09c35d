package domain

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// getValidator lazily builds the shared validator. Field names are reported
// by their json tag so errors line up with request payloads.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
		validatorInst.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validatorInst.RegisterValidation("milestone_type", func(fl validator.FieldLevel) bool {
			return IsValidMilestoneType(MilestoneType(fl.Field().String()))
		})
		_ = validatorInst.RegisterValidation("job_status", func(fl validator.FieldLevel) bool {
			return IsValidJobStatus(JobStatus(fl.Field().String()))
		})
	})
	return validatorInst
}

// dateRanged is implemented by entities that carry a start/end pair.
type dateRanged interface {
	dateRange() (start time.Time, end *time.Time)
}

// ValidateStruct runs the tag rules on model and maps failures into
// ValidationErrors.
func ValidateStruct(model interface{}) error {
	var out ValidationErrors

	if err := getValidator().Struct(model); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			out = append(out, ValidationError{
				Field:   fe.Field(),
				Message: formatValidationMessage(fe),
				Type:    validationType(fe.Tag()),
				Value:   fe.Value(),
			})
		}
	}

	if dr, ok := model.(dateRanged); ok {
		start, end := dr.dateRange()
		if end != nil && !start.IsZero() && end.Before(start) {
			out = append(out, ValidationError{
				Field:   "endDate",
				Message: "End date cannot be before start date",
				Type:    ErrDateRange,
			})
		}
	}

	if len(out) > 0 {
		return out
	}
	return nil
}

func validationType(tag string) ValidationErrorType {
	switch tag {
	case "required":
		return ErrRequired
	case "max":
		return ErrMaxLength
	case "min":
		return ErrMinLength
	default:
		return ErrInvalidField
	}
}

func formatValidationMessage(fe validator.FieldError) string {
	label := FieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must not exceed %s characters", label, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must not contain more than %s items", label, fe.Param())
		default:
			return fmt.Sprintf("%s must be at most %s", label, fe.Param())
		}
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return label + " must be a valid URL"
	case "email":
		return label + " must be a valid email address"
	case "milestone_type":
		return label + " is not a known milestone type"
	case "job_status":
		return label + " must be one of: " + strings.Join(jobStatusNames(), ", ")
	default:
		return fe.Error()
	}
}

// FieldLabel turns a json field name into the label forms display:
// "appliedDate" -> "Applied date".
func FieldLabel(field string) string {
	if field == "" {
		return field
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SecuritySanitizer strips markup from user supplied text.
type SecuritySanitizer struct {
	policy *bluemonday.Policy
}

func NewSecuritySanitizer() *SecuritySanitizer {
	return &SecuritySanitizer{policy: bluemonday.StrictPolicy()}
}

// SanitizeString removes tags and hands back plain text; entities escaped by
// the policy are decoded again so "R&D" survives a round trip.
func (s *SecuritySanitizer) SanitizeString(input string) string {
	out := html.UnescapeString(s.policy.Sanitize(input))
	return strings.TrimSpace(angleBrackets.Replace(out))
}

func (s *SecuritySanitizer) SanitizeStrings(inputs ...string) []string {
	result := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if cleaned := s.SanitizeString(input); cleaned != "" {
			result = append(result, cleaned)
		}
	}
	return result
}

var (
	defaultSanitizer = NewSecuritySanitizer()
	angleBrackets    = strings.NewReplacer("<", "", ">", "")
)

// clean is the sanitizer every BeforeSave hook goes through.
func clean(fields ...*string) {
	for _, f := range fields {
		*f = defaultSanitizer.SanitizeString(*f)
	}
}
