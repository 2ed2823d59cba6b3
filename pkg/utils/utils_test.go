package utils

import (
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "he..."},
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"", 5, ""},
		{"abc", 2, "ab"},
		{"abc", 3, "abc"},
	}

	for _, tt := range tests {
		result := TruncateString(tt.input, tt.length)
		if result != tt.expected {
			t.Errorf("TruncateString(%q, %d) = %q; want %q", tt.input, tt.length, result, tt.expected)
		}
	}
}

func TestFormatDrops(t *testing.T) {
	tests := []struct {
		input     string
		expected  string
		expectErr bool
	}{
		{"31983471", "31.983471", false},
		{"1000000", "1.000000", false},
		{"1", "0.000001", false},
		{"0", "0.000000", false},
		{"123456789012", "123456.789012", false},
		{"not-a-number", "", true},
		{"", "", true},
		{"10.5", "", true},
	}

	for _, tt := range tests {
		result, err := FormatDrops(tt.input)
		if tt.expectErr {
			if err == nil {
				t.Errorf("FormatDrops(%q) expected error, got %q", tt.input, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("FormatDrops(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("FormatDrops(%q) = %q; want %q", tt.input, result, tt.expected)
		}
	}
}

func TestIsValidAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"10", true},
		{"10.5", true},
		{"10.000001", true},
		{"0.000001", true},
		{"0", false},
		{"", false},
		{"  ", false},
		{"-5", false},
		{"1e6", false},
		{"ten", false},
		{"10,5", false},
	}

	for _, tt := range tests {
		if got := IsValidAmount(tt.input); got != tt.expected {
			t.Errorf("IsValidAmount(%q) = %v; want %v", tt.input, got, tt.expected)
		}
	}
}
