package config

import (
	"strings"
	"testing"
)

func TestLoadDefaultsInMockMode(t *testing.T) {
	t.Setenv("SAHAYAK_USE_MOCK_LLM", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" || cfg.TopK != 3 || cfg.ProfileBackend != "memory" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadRequiresKeysOutsideMockMode(t *testing.T) {
	t.Setenv("SAHAYAK_USE_MOCK_LLM", "false")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("SERPER_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a keyless config outside mock mode")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{UseMockLLM: true, TopK: 3, ProfileBackend: "redis"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SAHAYAK_PROFILE_BACKEND") {
		t.Fatalf("err = %v", err)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SAHAYAK_TEST_STR", "value")
	t.Setenv("SAHAYAK_TEST_INT", "42")
	t.Setenv("SAHAYAK_TEST_BOOL", "true")
	t.Setenv("SAHAYAK_TEST_BAD_INT", "not-a-number")

	if got := getEnv("SAHAYAK_TEST_STR", "d"); got != "value" {
		t.Errorf("getEnv = %q", got)
	}
	if got := getEnv("SAHAYAK_TEST_UNSET", "d"); got != "d" {
		t.Errorf("getEnv fallback = %q", got)
	}
	if got := getEnvInt("SAHAYAK_TEST_INT", 1); got != 42 {
		t.Errorf("getEnvInt = %d", got)
	}
	if got := getEnvInt("SAHAYAK_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt bad value = %d, want fallback", got)
	}
	if got := getEnvBool("SAHAYAK_TEST_BOOL", false); !got {
		t.Error("getEnvBool = false")
	}
}
