package interactive

import (
	"testing"
)

func TestGetDisplayItemCount(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{"Default when env var not set", "", 10},
		{"Valid value within range", "15", 15},
		{"Minimum valid value", "1", 1},
		{"Maximum allowed value", "20", 20},
		{"Just above maximum", "21", 20},
		{"Value too large (limited to 20)", "50", 20},
		{"Invalid negative value (use default)", "-5", 10},
		{"Invalid zero value (use default)", "0", 10},
		{"Invalid non-numeric value (use default)", "invalid", 10},
		{"Only spaces (use default)", "   ", 10},
		{"Padded number", " 12 ", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REAPER_LOG_DIR", t.TempDir())
			t.Setenv("REAPER_SELECTOR_HEIGHT", tt.envValue)

			result := getDisplayItemCount()
			if result != tt.expected {
				t.Errorf("getDisplayItemCount() = %d, want %d", result, tt.expected)
			}
		})
	}
}
