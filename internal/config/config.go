package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/optable/elgamalot/pkg/ot"
)

// EnvPrefix prefixes every environment variable read by Load,
// ELGAMALOT_CURVE sets curve and so on.
const EnvPrefix = "ELGAMALOT"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the settings shared by the sender and receiver binaries.
type Config struct {
	Curve  string `mapstructure:"curve"`
	KDF    string `mapstructure:"kdf"`
	Random string `mapstructure:"random"`

	Address  string `mapstructure:"address"`
	Cert     string `mapstructure:"cert"`
	Key      string `mapstructure:"key"`
	CA       string `mapstructure:"ca"`
	Insecure bool   `mapstructure:"insecure"`

	Verbosity int    `mapstructure:"verbosity"`
	Messages  string `mapstructure:"messages"`
	Choice    uint64 `mapstructure:"choice"`
	Profile   string `mapstructure:"profile"`
}

var defaults = map[string]interface{}{
	"curve":     ot.DefaultCurve,
	"kdf":       ot.DefaultKDF,
	"random":    ot.DefaultRandom,
	"address":   "127.0.0.1:9000",
	"cert":      "cert.pem",
	"key":       "key.pem",
	"ca":        "",
	"insecure":  false,
	"verbosity": 0,
	"messages":  "messages.txt",
	"choice":    1,
	"profile":   "",
}

// Load builds a Config from defaults, the optional file at path,
// ELGAMALOT_* environment variables and overrides, in increasing order of precedence.
// The file type follows its extension (yaml, toml, json).
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fields Load cannot type check.
func (c *Config) Validate() error {
	if _, err := c.Engine(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Verbosity < 0 || c.Verbosity > 2 {
		return fmt.Errorf("%w: verbosity must be 0, 1 or 2, got %d", ErrInvalidConfig, c.Verbosity)
	}
	// item indexes are 32 bits on the wire
	if c.Choice > math.MaxUint32 {
		return fmt.Errorf("%w: choice %d does not fit in 32 bits", ErrInvalidConfig, c.Choice)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("%w: unknown profile mode %q", ErrInvalidConfig, c.Profile)
	}
	return nil
}

// Engine returns the protocol engine described by c.
func (c *Config) Engine() (*ot.Engine, error) {
	return ot.NewEngine(c.Curve, ot.WithKDF(c.KDF), ot.WithRandom(c.Random))
}
