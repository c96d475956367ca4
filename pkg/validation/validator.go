package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted calendar date format
const DateLayout = "2006-01-02"

var isoDatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Get returns the shared validator. It reports fields by their json name and
// knows the ci_oneof, iso_date and year_between tags.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister(v, "ci_oneof", caseInsensitiveOneOf)
		mustRegister(v, "iso_date", isoDate)
		mustRegister(v, "year_between", yearBetween)

		validate = v
	})

	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

// ValidateStruct validates s and returns a *ValidationError on failure
func ValidateStruct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		if v := NewValidationError(validationErrs); v.HasErrors() {
			return v
		}
		return nil
	}
	return err
}

// ParseDate parses a strict YYYY-MM-DD date
func ParseDate(value string) (time.Time, error) {
	if !isoDatePattern.MatchString(value) {
		return time.Time{}, errors.New("date must match YYYY-MM-DD")
	}
	return time.Parse(DateLayout, value)
}

func caseInsensitiveOneOf(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	value := field.String()
	for _, allowed := range strings.Fields(fl.Param()) {
		if strings.EqualFold(value, allowed) {
			return true
		}
	}
	return false
}

func isoDate(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	_, err := ParseDate(field.String())
	return err == nil
}

// yearBetween takes "min max" and expects an iso_date string field
func yearBetween(fl validator.FieldLevel) bool {
	bounds := strings.Fields(fl.Param())
	if len(bounds) != 2 || fl.Field().Kind() != reflect.String {
		return false
	}
	lo, err := strconv.Atoi(bounds[0])
	if err != nil {
		return false
	}
	hi, err := strconv.Atoi(bounds[1])
	if err != nil {
		return false
	}

	date, err := ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return date.Year() >= lo && date.Year() <= hi
}
