package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Month validation ("YYYY-MM")
func IsValidMonth(monthStr string) (time.Time, bool) {
	month, err := time.Parse("2006-01", monthStr)
	return month, err == nil
}

// Clock time validation: "H:MM" or "HH:MM", 24-hour.
var clockTimeRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

func IsValidClockTime(hm string) bool {
	if !clockTimeRegex.MatchString(hm) {
		return false
	}
	_, err := time.Parse("15:04", normalizeClockTime(hm))
	return err == nil
}

// ParseClockTimeOn combines an "HH:MM" string with the given calendar date in
// loc. The logical work date never shifts, whatever the clock time says.
func ParseClockTimeOn(hm string, date time.Time, loc *time.Location) (time.Time, bool) {
	if !IsValidClockTime(hm) {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation("15:04", normalizeClockTime(hm), loc)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc), true
}

func normalizeClockTime(hm string) string {
	if len(hm) == 4 {
		return "0" + hm
	}
	return hm
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
