package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/turtacn/fedicore/pkg/constants"
)

// EnvPrefix prefixes every environment override, e.g. FEDICORE_FEDERATION_DOMAIN.
const EnvPrefix = "FEDICORE"

// Loader reads configuration from file, environment variables, and defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader. An empty configFile searches /etc/fedicore/ and the
// working directory for config.yaml.
func NewLoader(configFile string) *Loader {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/fedicore/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", constants.DefaultHTTPPort)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", constants.DefaultReadTimeout)
	v.SetDefault("server.write_timeout", constants.DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", constants.DefaultShutdownTimeout)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("federation.domain", fmt.Sprintf("http://localhost:%d", constants.DefaultHTTPPort))
	v.SetDefault("federation.key_bits", constants.DefaultRSAKeyBits)

	v.SetDefault("delivery.timeout", constants.DefaultDeliveryTimeout)
	v.SetDefault("delivery.user_agent", constants.DefaultUserAgent)
	v.SetDefault("delivery.signed_headers", constants.DefaultSignedHeaders)
	v.SetDefault("delivery.allow_private_targets", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_path", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.sampling_rate", 1.0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("operator.enabled", false)
	v.SetDefault("operator.token_secret", "")
	v.SetDefault("operator.issuer", constants.ServiceName)
	v.SetDefault("operator.token_ttl", constants.DefaultOperatorTokenTTL)
}

// Load reads and validates the configuration. A missing config file is not an error
// when no explicit file was requested.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WatchLogLevel invokes onChange with the new log.level whenever the config file changes.
// It is a no-op when no config file was found.
func (l *Loader) WatchLogLevel(onChange func(level string)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(l.v.GetString("log.level"))
	})
	l.v.WatchConfig()
}

// LoadConfig loads the configuration from file, environment variables, and defaults.
func LoadConfig(configFile string) (*Config, error) {
	return NewLoader(configFile).Load()
}
