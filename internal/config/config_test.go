package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 72, cfg.Auth.TokenTTLHours)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PARACOSM_DATABASE_HOST", "db.internal")
	t.Setenv("PARACOSM_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestDSN(t *testing.T) {
	d := Database{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC", d.DSN())
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Name = "paracosm"
	assert.Error(t, Validate(cfg), "missing jwt secret")

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, Validate(cfg))
}
