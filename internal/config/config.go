package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// IgnoredSpellIDs drops combat-log rows for these spells entirely;
	// trinket procs, consumables and similar replay noise.
	IgnoredSpellIDs map[int64]bool
	// IgnoredCreatureIDs drops combat-log rows involving these creature or
	// game-object ids on either side.
	IgnoredCreatureIDs map[int64]bool
	// KillExtensionWindow is how many lines past ENCOUNTER_END a trailing
	// BOSS_KILL may sit and still be pulled into the range.
	KillExtensionWindow int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		IgnoredSpellIDs:     getEnvIDSet("IGNORED_SPELL_IDS"),
		IgnoredCreatureIDs:  getEnvIDSet("IGNORED_CREATURE_IDS"),
		KillExtensionWindow: getEnvInt("KILL_EXTENSION_WINDOW", 50),
	}
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvIDSet parses a comma-separated id list; malformed items are skipped
// with a warning rather than failing the run.
func getEnvIDSet(key string) map[int64]bool {
	ids := make(map[int64]bool)
	v := os.Getenv(key)
	if v == "" {
		return ids
	}
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			log.Warn().Str("var", key).Str("item", item).Msg("Skipping malformed id")
			continue
		}
		ids[id] = true
	}
	return ids
}
