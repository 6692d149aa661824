package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"JWT_SECRET", "SERVER_PORT",
		"GAME_COUNTDOWN_SECONDS", "MATCH_TIME_LIMIT_SECONDS", "MAX_PLAYERS_PER_ROOM",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "trivia", cfg.DBName)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 3, cfg.CountdownSeconds)
	assert.Equal(t, 600, cfg.MatchTimeLimitSec)
	assert.Equal(t, 8, cfg.MaxPlayers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GAME_COUNTDOWN_SECONDS", "5")
	t.Setenv("MAX_PLAYERS_PER_ROOM", "4")

	cfg := Load()
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5, cfg.CountdownSeconds)
	assert.Equal(t, 4, cfg.MaxPlayers)
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("GAME_COUNTDOWN_SECONDS", "soon")

	cfg := Load()
	assert.Equal(t, 3, cfg.CountdownSeconds)
}
