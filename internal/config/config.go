package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/fedicore/pkg/constants"
)

// Config holds the application's configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Federation FederationConfig `mapstructure:"federation"`
	Delivery   DeliveryConfig   `mapstructure:"delivery"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Operator   OperatorConfig   `mapstructure:"operator"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Address returns the listen address in host:port form.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// FederationConfig describes this node's public identity.
type FederationConfig struct {
	// Domain is the public origin actor ids are rooted at, e.g. https://example.com
	Domain string `mapstructure:"domain"`
	// KeyBits is the RSA modulus size minted for new accounts
	KeyBits int `mapstructure:"key_bits"`
}

// Host returns Domain without its scheme, the form used in acct: URIs.
func (c *FederationConfig) Host() string {
	u, err := url.Parse(c.Domain)
	if err != nil || u.Host == "" {
		return c.Domain
	}
	return u.Host
}

type DeliveryConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	// SignedHeaders is the ordered list covered by outbound signatures
	SignedHeaders []string `mapstructure:"signed_headers"`
	// AllowPrivateTargets permits deliveries to loopback, private and link-local addresses
	AllowPrivateTargets bool `mapstructure:"allow_private_targets"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// OperatorConfig gates the submit-note API behind HS256 bearer tokens.
type OperatorConfig struct {
	// Enabled registers POST /users/:username/notes/:note_id
	Enabled     bool          `mapstructure:"enabled"`
	TokenSecret string        `mapstructure:"token_secret"`
	Issuer      string        `mapstructure:"issuer"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Federation.Domain)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("federation.domain must be an absolute http(s) origin, got %q", c.Federation.Domain)
	}
	if strings.HasSuffix(c.Federation.Domain, "/") {
		return fmt.Errorf("federation.domain must not end with '/', got %q", c.Federation.Domain)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("federation.domain must be an origin without path, got %q", c.Federation.Domain)
	}
	if c.Federation.KeyBits < constants.MinRSAKeyBits {
		return fmt.Errorf("federation.key_bits must be at least %d, got %d", constants.MinRSAKeyBits, c.Federation.KeyBits)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Delivery.Timeout <= 0 {
		return fmt.Errorf("delivery.timeout must be positive, got %s", c.Delivery.Timeout)
	}
	if err := validateSignedHeaders(c.Delivery.SignedHeaders); err != nil {
		return err
	}
	if c.Operator.Enabled && len(c.Operator.TokenSecret) < constants.MinOperatorSecretBytes {
		return fmt.Errorf("operator.token_secret must be at least %d bytes when the operator API is enabled", constants.MinOperatorSecretBytes)
	}
	if c.Tracing.Enabled && c.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing.jaeger_endpoint is required when tracing is enabled")
	}
	return nil
}

// validateSignedHeaders requires the headers every federation peer expects to be covered.
func validateSignedHeaders(names []string) error {
	covered := make(map[string]bool, len(names))
	for _, name := range names {
		covered[strings.ToLower(name)] = true
	}
	for _, required := range constants.DefaultSignedHeaders {
		if !covered[required] {
			return fmt.Errorf("delivery.signed_headers must include %q, got %v", required, names)
		}
	}
	return nil
}
