package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "1323", cfg.Port)
	assert.Equal(t, "online_school.db", cfg.DBPath)
	assert.Equal(t, SchemeLegacy, cfg.PasswordScheme)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("SCHOOLHOUSE_DB_PATH", "/tmp/other.db")
	t.Setenv("SCHOOLHOUSE_PASSWORD_SCHEME", SchemeBcrypt)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, SchemeBcrypt, cfg.PasswordScheme)
}

func TestNewConfigRejectsUnknownScheme(t *testing.T) {
	t.Setenv("SCHOOLHOUSE_PASSWORD_SCHEME", "plaintext")

	_, err := NewConfig()
	assert.Error(t, err)
}
