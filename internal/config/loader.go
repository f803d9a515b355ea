package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "MOLGRAPH"

// newViper builds a pre-configured viper instance: YAML file type, MOLGRAPH_
// env prefix, automatic env binding, and a key replacer that maps "." → "_"
// so nested keys like "server.port" resolve to "MOLGRAPH_SERVER_PORT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every configuration key to viper.  AutomaticEnv only
// resolves keys viper already knows, so without this an env-only load would
// silently ignore MOLGRAPH_* variables.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout",
		"server.write_timeout", "server.shutdown_timeout",
		"log.level", "log.format", "log.output_paths",
		"perception.ring_timeout",
		"fingerprint.bits", "fingerprint.path_len",
		"database.enabled", "database.host", "database.port", "database.user",
		"database.password", "database.db_name", "database.ssl_mode",
		"database.max_conns", "database.conn_max_lifetime",
		"redis.enabled", "redis.addr", "redis.password", "redis.db",
		"redis.key_prefix", "redis.default_ttl",
		"kafka.enabled", "kafka.brokers", "kafka.topic",
		"kafka.batch_timeout", "kafka.write_timeout",
		"neo4j.enabled", "neo4j.uri", "neo4j.user", "neo4j.password",
		"neo4j.database",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges MOLGRAPH_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOLGRAPH_* environment variables
// with no config file, the preferred strategy for containerized deployments.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk (fsnotify via viper).  A change
// that fails to parse or validate is skipped so the application never
// observes a broken configuration.  Watch is non-blocking.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}
