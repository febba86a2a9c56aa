package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("FIREBASE_CREDENTIALS_PATH", "")

	cfg, err := Load([]string{"--postgres", "host=db", "--jwt.secret", "s3cret", "--http.port", "9000"})
	require.NoError(t, err)
	assert.Equal(t, "host=db", cfg.PostgresURL)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "host=env")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("FIREBASE_CREDENTIALS_PATH", "/etc/firebase.json")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "host=env", cfg.PostgresURL)
	assert.Equal(t, "/etc/firebase.json", cfg.FirebaseCredentialsPath)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("FIREBASE_CREDENTIALS_PATH", "")

	_, err := Load([]string{"--jwt.secret", "s"})
	assert.Error(t, err)

	_, err = Load([]string{"--postgres", "host=db"})
	assert.Error(t, err)

	_, err = Load([]string{"--postgres", "host=db", "--jwt.secret", "s", "--log.level", "loud"})
	assert.Error(t, err)
}
