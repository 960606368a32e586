// Package config loads process-environment ergonomics knobs for the
// shell: history size and initial prompt. Re-themed from the teacher's
// Telegram-token/allowlist loader (same env-parsing helpers, same
// "optional .env sugar, not scripting" posture) to the small set of
// knobs spec.md §9's AMBIENT config note allows without crossing into
// the "no configuration files" Non-goal, which is about shell *script*
// config, not process environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the shell's startup ergonomics knobs.
type Config struct {
	// HistSize caps the number of retained history entries. Zero means
	// unbounded.
	HistSize int

	// Prompt is the initial prompt text, overridable afterward by the
	// prompt built-in (spec.md §3).
	Prompt string
}

const (
	defaultHistSize = 1000
	defaultPrompt   = "%"
)

// Load reads ACUSH_HISTSIZE and ACUSH_PROMPT from the process
// environment, falling back to the spec's defaults.
func Load() Config {
	return Config{
		HistSize: envInt("ACUSH_HISTSIZE", defaultHistSize),
		Prompt:   envString("ACUSH_PROMPT", defaultPrompt),
	}
}

func envString(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// envBool is also used by dotenv.go to decide whether DOTENV_OVERRIDE is
// set.
func envBool(key string, def bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
