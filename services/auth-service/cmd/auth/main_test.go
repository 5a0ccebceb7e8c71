package main

import (
	"os"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCfgRequiresOnlyOwnDSN(t *testing.T) {
	// the service must boot with nothing but its own database in the
	// environment
	t.Setenv("PG_AUTH_DSN", "host=localhost dbname=auth")

	var cfg Cfg
	require.NoError(t, envconfig.Process("", &cfg))
	assert.Equal(t, "nats://nats:4222", cfg.NatsURL)
	assert.Equal(t, ":5002", cfg.AuthHTTPAddr)
	assert.Equal(t, 60, cfg.JWTExpireMin)
}

func TestCfgRejectsMissingOwnDSN(t *testing.T) {
	// t.Setenv registers the restore; the variable must actually be
	// absent, since envconfig treats set-but-empty as present
	t.Setenv("PG_AUTH_DSN", "")
	os.Unsetenv("PG_AUTH_DSN")
	var cfg Cfg
	assert.Error(t, envconfig.Process("", &cfg))
}
