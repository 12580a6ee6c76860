package validate

import (
	"testing"
	"time"
)

// TestValidateRange tests inclusive bounds and empty ranges
func TestValidateRange(t *testing.T) {
	tests := []struct {
		name        string
		value       int
		lo, hi      int
		expectError bool
	}{
		{"lower bound", 8, 8, 16, false},
		{"upper bound", 16, 8, 16, false},
		{"inside", 12, 8, 16, false},
		{"below", 7, 8, 16, true},
		{"above", 17, 8, 16, true},
		{"negative", -1, 0, 3, true},
		{"single element range", 0, 0, 0, false},
		{"empty range", 0, 0, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.value, tt.lo, tt.hi)
			if tt.expectError && err == nil {
				t.Errorf("ValidateRange(%d, %d, %d) = nil, want error", tt.value, tt.lo, tt.hi)
			}
			if !tt.expectError && err != nil {
				t.Errorf("ValidateRange(%d, %d, %d) = %v, want nil", tt.value, tt.lo, tt.hi, err)
			}
		})
	}
}

// TestParseBindAddress tests host:port parsing
func TestParseBindAddress(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedHost string
		expectedPort int
	}{
		{"localhost", "127.0.0.1:4300", false, "127.0.0.1", 4300},
		{"any address", "0.0.0.0:9000", false, "0.0.0.0", 9000},
		{"os assigned port", "127.0.0.1:0", false, "127.0.0.1", 0},
		{"empty", "", true, "", 0},
		{"missing port", "127.0.0.1", true, "", 0},
		{"hostname not ip", "localhost:80", true, "", 0},
		{"port too large", "127.0.0.1:70000", true, "", 0},
		{"port not numeric", "127.0.0.1:http", true, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseBindAddress(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("ParseBindAddress(%q) expected error, got %v", tt.input, addr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBindAddress(%q) unexpected error: %v", tt.input, err)
			}
			if addr.Host != tt.expectedHost || addr.Port != tt.expectedPort {
				t.Errorf("ParseBindAddress(%q) = %s:%d, want %s:%d",
					tt.input, addr.Host, addr.Port, tt.expectedHost, tt.expectedPort)
			}
		})
	}
}

// TestValidateHelpers tests the small string and timeout helpers
func TestValidateHelpers(t *testing.T) {
	if err := ValidateRequiredString("", "grid dir"); err == nil {
		t.Error("ValidateRequiredString(\"\") = nil, want error")
	}
	if err := ValidateRequiredString(".", "grid dir"); err != nil {
		t.Errorf("ValidateRequiredString(\".\") = %v", err)
	}
	if err := ValidatePositiveTimeout(0, "timeout"); err == nil {
		t.Error("ValidatePositiveTimeout(0) = nil, want error")
	}
	if err := ValidatePositiveTimeout(time.Second, "timeout"); err != nil {
		t.Errorf("ValidatePositiveTimeout(1s) = %v", err)
	}
}
