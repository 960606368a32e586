package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACUSH_HISTSIZE", "")
	t.Setenv("ACUSH_PROMPT", "")
	cfg := Load()
	if cfg.HistSize != defaultHistSize || cfg.Prompt != defaultPrompt {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ACUSH_HISTSIZE", "50")
	t.Setenv("ACUSH_PROMPT", "$ ")
	cfg := Load()
	if cfg.HistSize != 50 || cfg.Prompt != "$ " {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadRejectsNegativeHistSize(t *testing.T) {
	t.Setenv("ACUSH_HISTSIZE", "-3")
	cfg := Load()
	if cfg.HistSize != defaultHistSize {
		t.Fatalf("got %d, want default", cfg.HistSize)
	}
}
