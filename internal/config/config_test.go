package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TOKEN_LOOKUP", "")
	t.Setenv("PASSWORD_SCHEME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "param:token", cfg.TokenLookup)
	assert.Equal(t, "plaintext", cfg.PasswordScheme)
	assert.False(t, cfg.GenericAuthErrors)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
	assert.Nil(t, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad ttl", "TOKEN_TTL", "soon"},
		{"negative ttl", "TOKEN_TTL", "-5m"},
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"unknown password scheme", "PASSWORD_SCHEME", "md5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("TOKEN_LOOKUP", "header:Authorization:Bearer ")
	t.Setenv("PASSWORD_SCHEME", "bcrypt")
	t.Setenv("AUTH_GENERIC_ERRORS", "true")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "header:Authorization:Bearer ", cfg.TokenLookup)
	assert.Equal(t, "bcrypt", cfg.PasswordScheme)
	assert.True(t, cfg.GenericAuthErrors)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadSeed(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SEED_FILE", "fixtures/seed.json")

	cfg, err := LoadSeed()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "fixtures/seed.json", cfg.SeedFile)

	t.Setenv("DB_DRIVER", "oracle")
	_, err = LoadSeed()
	assert.Error(t, err)
}
