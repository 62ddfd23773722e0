package config

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("BLOKZ_TEST_STR", "hello")
	if got := getEnv("BLOKZ_TEST_STR", "fallback"); got != "hello" {
		t.Errorf("expected set value, got %q", got)
	}
	if got := getEnv("BLOKZ_TEST_STR_MISSING", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		fallback int
		want     int
	}{
		{name: "set integer", value: "12", set: true, fallback: 7, want: 12},
		{name: "unset falls back", set: false, fallback: 7, want: 7},
		{name: "malformed falls back", value: "not-a-number", set: true, fallback: 7, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("BLOKZ_TEST_INT", tt.value)
			}
			if got := getEnvAsInt("BLOKZ_TEST_INT", tt.fallback); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}
