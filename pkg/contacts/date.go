package contacts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Date is a possibly partial calendar date. A zero component means the
// provider did not supply it; a fully zero Date means no date at all.
// Provider payloads routinely omit the year (birthdays) or the day, so the
// type keeps whatever was given instead of inventing values.
type Date struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// DateOf builds a Date from raw components, clamping negatives to unknown.
func DateOf(year, month, day int) Date {
	d := Date{Year: year, Month: month, Day: day}
	if d.Year < 0 {
		d.Year = 0
	}
	if d.Month < 1 || d.Month > 12 {
		d.Month = 0
	}
	if d.Day < 1 || d.Day > 31 {
		d.Day = 0
	}
	return d
}

// IsZero reports whether no component is known.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// String renders the single canonical textual form:
//
//	2006-01-02  full date
//	--01-02     month and day, year unknown
//	2006-01     year and month
//	2006        year only
//	--01        month only
//
// A zero Date renders as the empty string. ParseDate accepts every form
// String produces, which makes normalization idempotent.
func (d Date) String() string {
	switch {
	case d.IsZero():
		return ""
	case d.Year == 0 && d.Day == 0:
		return fmt.Sprintf("--%02d", d.Month)
	case d.Year == 0:
		return fmt.Sprintf("--%02d-%02d", d.Month, d.Day)
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// ParseDate reads the provider forms seen in the wild: the canonical forms
// of Date.String, Google's yearless "--06-25" and zero-year "0000-06-25",
// and the bare "06-25" month-day pair. Anything unrecognized yields the
// zero Date rather than an error, since a bad date should never fail a
// whole contact.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}

	yearless := strings.HasPrefix(s, "--")
	s = strings.TrimPrefix(s, "--")

	parts := strings.Split(s, "-")
	nums := make([]int, 0, 3)
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Date{}
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 1:
		if yearless {
			return DateOf(0, nums[0], 0)
		}
		if len(parts[0]) == 4 {
			return DateOf(nums[0], 0, 0)
		}
		return Date{}
	case 2:
		if yearless || len(parts[0]) != 4 {
			return DateOf(0, nums[0], nums[1])
		}
		return DateOf(nums[0], nums[1], 0)
	case 3:
		if yearless {
			// "--YY-MM-DD" is not a thing; ignore the extra component.
			return DateOf(0, nums[0], nums[1])
		}
		return DateOf(nums[0], nums[1], nums[2])
	default:
		return Date{}
	}
}

// MarshalJSON encodes the date as its canonical string form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts either the canonical string form or the structured
// {year,month,day} object some providers use.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = ParseDate(s)
		return nil
	}

	var raw struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = DateOf(raw.Year, raw.Month, raw.Day)
	return nil
}
