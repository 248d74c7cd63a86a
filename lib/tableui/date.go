// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is how date cells are displayed and stored after an edit.
const DateLayout = "01/02/2006"

// ParseDate reads a date cell value. Values containing '-' are ISO
// dates (2024-05-01, optionally followed by a time); values containing
// '/' are month/day/year with or without zero padding (5/1/2024).
// Anything else, including the empty string, is not a date.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	switch {
	case strings.Contains(value, "-"):
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			return civilDate(parsed.Year(), parsed.Month(), parsed.Day()), true
		}
		datePart, _, _ := strings.Cut(value, "T")
		parsed, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true

	case strings.Contains(value, "/"):
		parts := strings.Split(value, "/")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		month, monthErr := strconv.Atoi(parts[0])
		day, dayErr := strconv.Atoi(parts[1])
		year, yearErr := strconv.Atoi(parts[2])
		if monthErr != nil || dayErr != nil || yearErr != nil {
			return time.Time{}, false
		}
		if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
			return time.Time{}, false
		}
		parsed := civilDate(year, time.Month(month), day)
		// time.Date normalizes 02/31 into March; reject instead.
		if parsed.Day() != day {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}

// FormatDate renders date in DateLayout.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// NormalizeDate parses value and re-renders it in DateLayout.
func NormalizeDate(value string) (string, bool) {
	parsed, ok := ParseDate(value)
	if !ok {
		return "", false
	}
	return FormatDate(parsed), true
}

// ShiftDate moves a date cell value by days and returns it in
// DateLayout.
func ShiftDate(value string, days int) (string, bool) {
	parsed, ok := ParseDate(value)
	if !ok {
		return "", false
	}
	return FormatDate(parsed.AddDate(0, 0, days)), true
}

// DisplayDate returns how a date cell is shown: normalized when it
// parses, verbatim otherwise.
func DisplayDate(value string) string {
	if normalized, ok := NormalizeDate(value); ok {
		return normalized
	}
	return value
}

func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
