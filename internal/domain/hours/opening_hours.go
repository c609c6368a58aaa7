// Package hours parses free-form opening hours such as "8:00 AM – 10:00 PM"
// and answers whether a restaurant is open at a given wall-clock time.
package hours

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"restaurandes/internal/errors"
)

const minutesPerDay = 24 * 60

// ErrUnrecognizedFormat is returned when no time range can be found.
var ErrUnrecognizedFormat = errors.New("unrecognized opening hours format")

var (
	rangePattern = regexp.MustCompile(`(?i)` +
		`(\d{1,2})(?:[:.](\d{2}))?\s*(?:hrs?\.?|h\b)?\s*(?:([ap])\.?\s*m\.?)?` +
		`\s*(?:-|–|—|to|hasta|a)\s*` +
		`(\d{1,2})(?:[:.](\d{2}))?\s*(?:hrs?\.?|h\b)?\s*(?:([ap])\.?\s*m\.?)?`)

	alwaysOpenMarkers = []string{"24/7", "24 horas", "24 hours"}
)

// Schedule is a daily opening window in minutes since midnight.
// Close may be smaller than Open when the window crosses midnight.
type Schedule struct {
	AlwaysOpen bool
	Open       int
	Close      int
}

type clock struct {
	hour     int
	minute   int
	meridiem string // "a", "p" or ""
}

// Parse extracts the first time range found in openingHours.
func Parse(openingHours string) (Schedule, error) {
	normalized := strings.ToLower(strings.TrimSpace(openingHours))
	if normalized == "" {
		return Schedule{}, ErrUnrecognizedFormat
	}

	for _, marker := range alwaysOpenMarkers {
		if strings.Contains(normalized, marker) {
			return Schedule{AlwaysOpen: true}, nil
		}
	}

	match := rangePattern.FindStringSubmatch(normalized)
	if match == nil {
		return Schedule{}, errors.Wrapf(ErrUnrecognizedFormat, "%q", openingHours)
	}

	start := clock{hour: atoi(match[1]), minute: atoi(match[2]), meridiem: match[3]}
	end := clock{hour: atoi(match[4]), minute: atoi(match[5]), meridiem: match[6]}

	// "8 - 10 PM" shares the meridiem written on one side only. The shared
	// reading must run forward, so "10 - 2 PM" is rejected.
	inherited := start.meridiem != end.meridiem && (start.meridiem == "" || end.meridiem == "")
	if start.meridiem == "" {
		start.meridiem = end.meridiem
	}
	if end.meridiem == "" {
		end.meridiem = start.meridiem
	}

	open, ok := start.minutes()
	if !ok {
		return Schedule{}, errors.Wrapf(ErrUnrecognizedFormat, "invalid opening time in %q", openingHours)
	}
	closeAt, ok := end.minutes()
	if !ok {
		return Schedule{}, errors.Wrapf(ErrUnrecognizedFormat, "invalid closing time in %q", openingHours)
	}

	if inherited && open >= closeAt {
		return Schedule{}, errors.Wrapf(ErrUnrecognizedFormat, "ambiguous meridiem in %q", openingHours)
	}

	open %= minutesPerDay
	if open == closeAt%minutesPerDay {
		return Schedule{AlwaysOpen: true}, nil
	}

	return Schedule{Open: open, Close: closeAt}, nil
}

// IsOpenAt reports whether the schedule covers the wall-clock time of t.
// The opening minute is inclusive and the closing minute exclusive.
func (s Schedule) IsOpenAt(t time.Time) bool {
	if s.AlwaysOpen {
		return true
	}

	m := t.Hour()*60 + t.Minute()
	if s.Open < s.Close {
		return m >= s.Open && m < s.Close
	}

	return m >= s.Open || m < s.Close
}

// IsOpen parses openingHours and evaluates it at t, returning fallback when the
// text cannot be parsed.
func IsOpen(openingHours string, t time.Time, fallback bool) bool {
	schedule, err := Parse(openingHours)
	if err != nil {
		return fallback
	}

	return schedule.IsOpenAt(t)
}

func (c clock) minutes() (int, bool) {
	if c.minute < 0 || c.minute > 59 {
		return 0, false
	}

	switch c.meridiem {
	case "a", "p":
		if c.hour < 1 || c.hour > 12 {
			return 0, false
		}
		hour := c.hour % 12
		if c.meridiem == "p" {
			hour += 12
		}

		return hour*60 + c.minute, true
	default:
		if c.hour > 24 || (c.hour == 24 && c.minute != 0) {
			return 0, false
		}

		return c.hour*60 + c.minute, true
	}
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}

	return n
}
