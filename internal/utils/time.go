package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/arise/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// DayKey returns the calendar date of t (in t's own location) as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDay parses a YYYY-MM-DD date. Older save files stored dates in the
// "Mon Jan 02 2006" form, which is accepted as well.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err == nil {
		return t, nil
	}
	if legacy, lerr := time.Parse(constants.LegacyDateFormat, day); lerr == nil {
		return legacy, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
}

// NormalizeDay converts any accepted date form to YYYY-MM-DD.
func NormalizeDay(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return t.Format(constants.DateFormat), nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days. The arithmetic is done
// on a UTC date so DST transitions cannot skip or repeat a day.
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// DaysBetween returns the number of calendar days from a to b (b - a).
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDay(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDay(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// UntilMidnight returns the time left until the next local midnight in now's location.
func UntilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return midnight.Sub(now)
}

// FormatCountdown renders a duration as HH:MM:SS.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// IsValidDate reports whether s is a YYYY-MM-DD date.
func IsValidDate(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
