package main

import (
	"testing"
)

func TestGetenv(t *testing.T) {
	key := "MEDIA_SERVICE_TEST_VAR"
	def := "default_value"

	if val := getenv(key, def); val != def {
		t.Errorf("expected %q, got %q", def, val)
	}

	t.Setenv(key, "set_value")
	if val := getenv(key, def); val != "set_value" {
		t.Errorf("expected %q, got %q", "set_value", val)
	}

	t.Setenv(key, "")
	if val := getenv(key, def); val != def {
		t.Errorf("empty value should fall back: expected %q, got %q", def, val)
	}
}
