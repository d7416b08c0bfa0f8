package config

import (
	"os"
	"testing"
)

func TestManagerGet(t *testing.T) {
	os.Setenv("SUDBURRY_TEST_KEY", "from-env")
	defer os.Unsetenv("SUDBURRY_TEST_KEY")

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if got := m.Get("SUDBURRY_TEST_KEY"); got != "from-env" {
		t.Errorf("Get() = %q, want from-env", got)
	}
	if got := m.Get("SUDBURRY_MISSING_KEY"); got != "" {
		t.Errorf("Get() for missing key = %q, want empty", got)
	}
	if got := m.GetWithDefault("SUDBURRY_MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("GetWithDefault() = %q, want fallback", got)
	}
	if got := m.GetWithDefault("SUDBURRY_TEST_KEY", "fallback"); got != "from-env" {
		t.Errorf("GetWithDefault() with present key = %q, want from-env", got)
	}
}

func TestGlobalAccessors(t *testing.T) {
	if got := GetWithDefault("ANY_KEY", "default"); Global() == nil && got != "default" {
		t.Errorf("GetWithDefault() before Init = %q, want default", got)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if Global() == nil {
		t.Fatal("Global() = nil after Init")
	}

	os.Setenv("SUDBURRY_GLOBAL_KEY", "value")
	defer os.Unsetenv("SUDBURRY_GLOBAL_KEY")
	if got := Get("SUDBURRY_GLOBAL_KEY"); got != "value" {
		t.Errorf("Get() = %q, want value", got)
	}
}
