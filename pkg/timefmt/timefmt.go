package timefmt

import (
	"errors"
	"strconv"
	"strings"
)

// Length bounds.
const (
	MaxHours   = 23
	MaxMinutes = 59
	MaxSeconds = 59

	// MaxTotal is the largest representable timer length in seconds.
	MaxTotal = MaxHours*3600 + MaxMinutes*60 + MaxSeconds
)

// ErrMalformed is returned by Parse for strings that are not "MM:SS".
var ErrMalformed = errors.New("malformed display time")

// Format renders seconds as "MM:SS". Negative input is treated as zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	rest := seconds % 60

	var b strings.Builder
	b.Grow(5)
	if minutes < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(minutes))
	b.WriteByte(':')
	if rest < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(rest))
	return b.String()
}

// Parse converts a display string produced by Format back to seconds.
func Parse(display string) (int, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(display), ":")
	if !ok || !isDigits(mm) || !isDigits(ss) {
		return 0, ErrMalformed
	}

	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, ErrMalformed
	}
	seconds, err := strconv.Atoi(ss)
	if err != nil {
		return 0, ErrMalformed
	}
	return minutes*60 + seconds, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Length is a timer length split into its three input fields.
type Length struct {
	Hours   int
	Minutes int
	Seconds int
}

// Split breaks a second count into hours, minutes and seconds.
func Split(total int) Length {
	if total < 0 {
		total = 0
	}
	return Length{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Total returns the length in seconds.
func (l Length) Total() int {
	return l.Hours*3600 + l.Minutes*60 + l.Seconds
}

// ClampLength bounds each field into its valid range.
func ClampLength(hours, minutes, seconds int) Length {
	return Length{
		Hours:   clamp(hours, 0, MaxHours),
		Minutes: clamp(minutes, 0, MaxMinutes),
		Seconds: clamp(seconds, 0, MaxSeconds),
	}
}

// ClampTotal bounds a second count into [0, MaxTotal].
func ClampTotal(seconds int) int {
	return clamp(seconds, 0, MaxTotal)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseField reads the leading integer of an input field.
// Leading whitespace and a sign are accepted; anything after the digits is
// ignored. Input without leading digits yields 0.
func ParseField(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	// Anything longer than this is out of range for every field anyway.
	if end > 9 {
		if neg {
			return -999999999
		}
		return 999999999
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}
