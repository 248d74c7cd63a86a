// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

package tableui

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{input: "2024-05-01", want: "05/01/2024", ok: true},
		{input: "2024-05-01T10:30:00Z", want: "05/01/2024", ok: true},
		{input: "05/01/2024", want: "05/01/2024", ok: true},
		{input: "5/1/2024", want: "05/01/2024", ok: true},
		{input: " 12/31/2023 ", want: "12/31/2023", ok: true},
		{input: "02/30/2024", ok: false},
		{input: "13/01/2024", ok: false},
		{input: "2024-13-01", ok: false},
		{input: "05/01", ok: false},
		{input: "tomorrow", ok: false},
		{input: "", ok: false},
	}
	for _, test := range tests {
		got, ok := NormalizeDate(test.input)
		if ok != test.ok || got != test.want {
			t.Errorf("NormalizeDate(%q) = %q, %v; want %q, %v", test.input, got, ok, test.want, test.ok)
		}
	}
}

func TestShiftDate(t *testing.T) {
	tests := []struct {
		input string
		days  int
		want  string
	}{
		{input: "2024-05-01", days: 1, want: "05/02/2024"},
		{input: "05/01/2024", days: -1, want: "04/30/2024"},
		{input: "02/28/2024", days: 1, want: "02/29/2024"},
		{input: "12/31/2024", days: 1, want: "01/01/2025"},
	}
	for _, test := range tests {
		got, ok := ShiftDate(test.input, test.days)
		if !ok || got != test.want {
			t.Errorf("ShiftDate(%q, %d) = %q, %v; want %q", test.input, test.days, got, ok, test.want)
		}
	}

	if _, ok := ShiftDate("soon", 1); ok {
		t.Error("ShiftDate accepted a non-date")
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate("2024-05-08"); got != "05/08/2024" {
		t.Errorf("DisplayDate(ISO) = %q", got)
	}
	if got := DisplayDate("whenever"); got != "whenever" {
		t.Errorf("DisplayDate(text) = %q, want verbatim", got)
	}
}
