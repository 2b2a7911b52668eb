package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Empty(t, cfg.IgnoredSpellIDs)
	assert.Empty(t, cfg.IgnoredCreatureIDs)
	assert.Equal(t, 50, cfg.KillExtensionWindow)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGNORED_SPELL_IDS", "6603, 75,5019")
	t.Setenv("IGNORED_CREATURE_IDS", "204931, bogus, ")
	t.Setenv("KILL_EXTENSION_WINDOW", "25")

	cfg := Load()

	assert.Equal(t, map[int64]bool{6603: true, 75: true, 5019: true}, cfg.IgnoredSpellIDs)
	// Malformed items are skipped, not fatal.
	assert.Equal(t, map[int64]bool{204931: true}, cfg.IgnoredCreatureIDs)
	assert.Equal(t, 25, cfg.KillExtensionWindow)
}

func TestLoadBadWindowFallsBack(t *testing.T) {
	t.Setenv("KILL_EXTENSION_WINDOW", "soon")
	assert.Equal(t, 50, Load().KillExtensionWindow)
}
