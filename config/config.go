package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/layer-3/faucet/core"
)

// Keys of the settings. Each one is read from the upper-cased environment
// variable of the same name, e.g. chain_id from CHAIN_ID.
const (
	KeyEnvFile       = "env_file"
	KeyPort          = "port"
	KeyLogLevel      = "log_level"
	KeyRedisURL      = "redis_url"
	KeyJWTSecret     = "jwt_secret"
	KeySIWEDomain    = "siwe_domain"
	KeySIWEURI       = "siwe_uri"
	KeySIWEStatement = "siwe_statement"
	KeySIWEVersion   = "siwe_version"
	KeyChallengeTTL  = "challenge_ttl"
	KeySweepInterval = "sweep_interval"
	KeySessionTTL    = "session_ttl"
	KeyChainID       = "chain_id"
	KeyNetworkName   = "network_name"
	KeyRPCURL        = "rpc_url"
	KeyPrivateKey    = "private_key"
	KeyContract      = "contract_address"
)

var defaults = map[string]any{
	KeyEnvFile:       ".env",
	KeyPort:          "3001",
	KeyLogLevel:      "info",
	KeySIWEDomain:    "localhost:3001",
	KeySIWEURI:       "http://localhost:5173",
	KeySIWEStatement: "Sign in to Faucet Token App",
	KeySIWEVersion:   "1",
	KeyChallengeTTL:  "10m",
	KeySweepInterval: "5m",
	KeySessionTTL:    "24h",
	KeyChainID:       "11155111",
	KeyNetworkName:   "Sepolia",
}

var envKeys = []string{
	KeyEnvFile, KeyPort, KeyLogLevel, KeyRedisURL,
	KeyJWTSecret, KeySIWEDomain, KeySIWEURI, KeySIWEStatement, KeySIWEVersion,
	KeyChallengeTTL, KeySweepInterval, KeySessionTTL,
	KeyChainID, KeyNetworkName, KeyRPCURL, KeyPrivateKey, KeyContract,
}

type Config struct {
	Port     string
	LogLevel string
	RedisURL string
	Auth     AuthConfig
	Chain    ChainConfig
}

type AuthConfig struct {
	JWTSecret     string
	Domain        string
	URI           string
	Statement     string
	Version       string
	ChallengeTTL  time.Duration
	SweepInterval time.Duration
	SessionTTL    time.Duration
}

type ChainConfig struct {
	ChainID         int64
	NetworkName     string
	RPCURL          string
	PrivateKey      string
	ContractAddress string
}

// NewViper returns a viper instance with the defaults set and every key
// bound to its environment variable.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for _, key := range envKeys {
		envName := strings.ToUpper(key)
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("failed to bind '%s' to env var '%s': %w", key, envName, err)
		}
	}
	return v, nil
}

// BindFlags registers the command line flags that override the environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	flags.String("env-file", ".env", "Optional dotenv file to load before reading the environment")
	flags.String("port", "", "HTTP listen port (PORT)")
	flags.String("log-level", "", "Log level (LOG_LEVEL)")

	for key, name := range map[string]string{
		KeyEnvFile:  "env-file",
		KeyPort:     "port",
		KeyLogLevel: "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag '%s': %w", name, err)
		}
	}
	return nil
}

// Load builds the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	var errs []string

	duration := func(key string) time.Duration {
		d, err := cast.ToDurationE(v.Get(key))
		if err != nil || d <= 0 {
			errs = append(errs, strings.ToUpper(key))
		}
		return d
	}

	chainID, err := cast.ToInt64E(v.Get(KeyChainID))
	if err != nil || chainID <= 0 {
		errs = append(errs, strings.ToUpper(KeyChainID))
	}

	cfg := Config{
		Port:     v.GetString(KeyPort),
		LogLevel: v.GetString(KeyLogLevel),
		RedisURL: v.GetString(KeyRedisURL),
		Auth: AuthConfig{
			JWTSecret:     v.GetString(KeyJWTSecret),
			Domain:        v.GetString(KeySIWEDomain),
			URI:           v.GetString(KeySIWEURI),
			Statement:     v.GetString(KeySIWEStatement),
			Version:       v.GetString(KeySIWEVersion),
			ChallengeTTL:  duration(KeyChallengeTTL),
			SweepInterval: duration(KeySweepInterval),
			SessionTTL:    duration(KeySessionTTL),
		},
		Chain: ChainConfig{
			ChainID:         chainID,
			NetworkName:     v.GetString(KeyNetworkName),
			RPCURL:          v.GetString(KeyRPCURL),
			PrivateKey:      v.GetString(KeyPrivateKey),
			ContractAddress: v.GetString(KeyContract),
		},
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("%w: invalid %s", core.ErrMisconfigured, strings.Join(errs, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Chain.RPCURL == "" {
		missing = append(missing, "RPC_URL")
	}
	if c.Chain.PrivateKey == "" {
		missing = append(missing, "PRIVATE_KEY")
	}
	if c.Chain.ContractAddress == "" {
		missing = append(missing, "CONTRACT_ADDRESS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", core.ErrMisconfigured, strings.Join(missing, ", "))
	}
	return nil
}
