package config

import "testing"

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{"unset uses fallback", "", true, true},
		{"true", "true", false, true},
		{"numeric true", "1", false, true},
		{"false", "false", true, false},
		{"garbage uses fallback", "maybe", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("TEST_BOOL", tt.value)
			}
			if got := GetEnvBool("TEST_BOOL", tt.fallback); got != tt.want {
				t.Errorf("GetEnvBool(%q, %v) = %v, want %v", tt.value, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := GetEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}
	t.Setenv("TEST_INT", "not a number")
	if got := GetEnvInt("TEST_INT", 7); got != 7 {
		t.Errorf("GetEnvInt with invalid value = %d, want fallback 7", got)
	}
}
