package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/faucet/core"
)

func setRequired(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(strings.ToUpper(key), "")
	}
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("PRIVATE_KEY", "0x01")
	t.Setenv("CONTRACT_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
}

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v, err := NewViper()
	require.NoError(t, err)
	return v
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "localhost:3001", cfg.Auth.Domain)
	assert.Equal(t, "1", cfg.Auth.Version)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ChallengeTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.SweepInterval)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, int64(11155111), cfg.Chain.ChainID)
	assert.Equal(t, "Sepolia", cfg.Chain.NetworkName)
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("CHAIN_ID", "1")
	t.Setenv("CHALLENGE_TTL", "30s")
	t.Setenv("SIWE_DOMAIN", "faucet.example.org")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(1), cfg.Chain.ChainID)
	assert.Equal(t, 30*time.Second, cfg.Auth.ChallengeTTL)
	assert.Equal(t, "faucet.example.org", cfg.Auth.Domain)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", cfg.Chain.ContractAddress)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "warn")

	v := newTestViper(t)
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	require.NoError(t, BindFlags(v, flags))
	require.NoError(t, flags.Parse([]string{"--port", "9000", "--env-file", "faucet.env"}))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "faucet.env", v.GetString(KeyEnvFile))
}

func TestEnvFileDefault(t *testing.T) {
	setRequired(t)

	v := newTestViper(t)
	flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	require.NoError(t, BindFlags(v, flags))
	require.NoError(t, flags.Parse(nil))

	assert.Equal(t, ".env", v.GetString(KeyEnvFile))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
}

func TestLoadMissingSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(newTestViper(t))
	assert.ErrorIs(t, err, core.ErrMisconfigured)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadMalformedValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CHALLENGE_TTL", "ten minutes"},
		{"SESSION_TTL", "-1h"},
		{"SWEEP_INTERVAL", "0s"},
		{"CHAIN_ID", "sepolia"},
		{"CHAIN_ID", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(newTestViper(t))
			assert.ErrorIs(t, err, core.ErrMisconfigured)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
