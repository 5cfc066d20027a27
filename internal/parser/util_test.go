package parser

import (
	"testing"
)

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  01/15/24 UBER  ", "01/15/24 UBER"},
		{"PAYMENT – THANK YOU", "PAYMENT - THANK YOU"},
		{"−$5.00", "-$5.00"},
		{"⧫ AMAZON", "AMAZON"},
		{"R$ 9,00", "R$ 9,00"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := normalizeLine(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeLine(%q): got %q, want %q", tt.input, got, tt.expected)
			}
			if again := normalizeLine(got); again != got {
				t.Errorf("normalizeLine not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestIsoDate(t *testing.T) {
	tests := []struct {
		raw, layout, expected string
	}{
		{"01/15/24", "01/02/06", "2024-01-15"},
		{"12-31-23", "01-02-06", "2023-12-31"},
		{"13/45/24", "01/02/06", "13/45/24"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := isoDate(tt.raw, tt.layout); got != tt.expected {
				t.Errorf("isoDate(%q): got %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestDayMonthDate(t *testing.T) {
	tests := []struct {
		ddmm     string
		year     int
		expected string
	}{
		{"15/01", 2024, "2024-01-15"},
		{"29/02", 2024, "2024-02-29"},
		{"29/02", 2023, "29/02/2023"},
		{"31/04", 2024, "31/04/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.ddmm, func(t *testing.T) {
			if got := dayMonthDate(tt.ddmm, tt.year); got != tt.expected {
				t.Errorf("dayMonthDate(%q, %d): got %q, want %q", tt.ddmm, tt.year, got, tt.expected)
			}
		})
	}
}

func TestFindAccountEnding(t *testing.T) {
	tests := []struct {
		lines    []string
		expected string
	}{
		{[]string{"Statement", "Account Number:  Ending in 4321"}, "4321"},
		{[]string{"no account here"}, ""},
	}

	for _, tt := range tests {
		if got := findAccountEnding(tt.lines); got != tt.expected {
			t.Errorf("findAccountEnding(%v): got %q, want %q", tt.lines, got, tt.expected)
		}
	}
}
