// Package validation wraps a shared go-playground validator configured with the
// roomboard field rules. Both the server services and the client library validate
// their inputs through Struct so the two sides report identical field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format for wall-clock times.
	ClockLayout = "15:04"
)

// Weekdays lists the accepted weekday names in dashboard display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the process wide validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		mustRegister(v, "clock", isClock)
		mustRegister(v, "after_clock", isAfterClock)
		mustRegister(v, "weekday", isWeekday)
		mustRegister(v, "username", isUsername)
		validate = v
	})
	return validate
}

// Struct validates v and returns a map of JSON field name to message. A nil map
// means v is valid.
func Struct(v any) map[string]string {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return fields
}

// CanonicalWeekday maps a weekday name in any letter case onto its title-case form.
func CanonicalWeekday(day string) (string, bool) {
	trimmed := strings.TrimSpace(day)
	for _, name := range Weekdays {
		if strings.EqualFold(name, trimmed) {
			return name, true
		}
	}
	return "", false
}

// WeekdayIndex returns the position of day within Weekdays, or -1.
func WeekdayIndex(day string) int {
	canonical, ok := CanonicalWeekday(day)
	if !ok {
		return -1
	}
	for i, name := range Weekdays {
		if name == canonical {
			return i
		}
	}
	return -1
}

// WeekdayOf returns the dashboard weekday name for t.
func WeekdayOf(t time.Time) string {
	return t.Weekday().String()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		if fe.Param() == DateLayout {
			return field + " must be a YYYY-MM-DD date"
		}
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "clock":
		return field + " must be an HH:MM time"
	case "after_clock":
		return fmt.Sprintf("%s must be after %s", field, lowerFirst(fe.Param()))
	case "weekday":
		return field + " must be a weekday name"
	case "username":
		return field + " may only contain letters, digits, '.', '_' or '-'"
	case "email":
		return field + " must be a valid email address"
	case "url", "http_url":
		return field + " must be a valid URL"
	default:
		return field + " is invalid"
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return lowerFirst(field.Name)
	}
	return name
}

// isClock accepts zero-padded HH:MM only. Stored times sort and compare as text.
func isClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, value)
	return err == nil
}

// isAfterClock compares against the sibling field named by the tag parameter.
// Malformed values pass here and are reported by the clock rule instead.
func isAfterClock(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	other := parent.FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	start, err := time.Parse(ClockLayout, other.String())
	if err != nil {
		return true
	}
	end, err := time.Parse(ClockLayout, fl.Field().String())
	if err != nil {
		return true
	}
	return end.After(start)
}

func isWeekday(fl validator.FieldLevel) bool {
	_, ok := CanonicalWeekday(fl.Field().String())
	return ok
}

func isUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
