package internal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the toytxs configuration
type Config struct {
	Log struct {
		Level string `mapstructure:"level"` // debug, info, warn, error
		Dir   string `mapstructure:"dir"`   // optional directory for log files
	} `mapstructure:"log"`

	// Engine selects how transactions are applied
	Engine struct {
		Shards         int           `mapstructure:"shards"`          // <= 1 applies in-process
		RequestTimeout time.Duration `mapstructure:"request_timeout"` // shard snapshot timeout
	} `mapstructure:"engine"`

	// Ledger policy switches; defaults keep the plain rules
	Ledger struct {
		DuplicateTx    string `mapstructure:"duplicate_tx"`    // overwrite or fatal
		GuardRedispute bool   `mapstructure:"guard_redispute"` // reject dispute of a disputed tx
	} `mapstructure:"ledger"`

	Output struct {
		Sorted bool `mapstructure:"sorted"` // order rows by client id
	} `mapstructure:"output"`

	// Export configuration for the final ledger
	Export struct {
		SQLitePath string `mapstructure:"sqlite_path"` // SQLite file receiving the final ledger
	} `mapstructure:"export"`

	// NATS configuration for rejection diagnostics
	NATS struct {
		URL      string `mapstructure:"url"`
		Subject  string `mapstructure:"subject"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Token    string `mapstructure:"token"`
	} `mapstructure:"nats"`
}

// flagKeys maps command-line flag names onto config keys
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-dir":         "log.dir",
	"shards":          "engine.shards",
	"sorted":          "output.sorted",
	"sqlite":          "export.sqlite_path",
	"nats-url":        "nats.url",
	"nats-subject":    "nats.subject",
	"guard-redispute": "ledger.guard_redispute",
	"duplicate-tx":    "ledger.duplicate_tx",
}

// LoadConfig loads the configuration from defaults, an optional file,
// TOYTXS_* environment variables and flags, in increasing precedence.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaultConfig(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultConfigPath)
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist, unless it was asked for
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("TOYTXS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects values no component can run with
func (c *Config) Validate() error {
	if c.Engine.Shards < 0 {
		return fmt.Errorf("engine.shards must not be negative, got %d", c.Engine.Shards)
	}
	if c.Engine.RequestTimeout <= 0 {
		return fmt.Errorf("engine.request_timeout must be positive, got %s", c.Engine.RequestTimeout)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Ledger.DuplicateTx {
	case "overwrite", "fatal":
	default:
		return fmt.Errorf("ledger.duplicate_tx must be overwrite or fatal, got %q", c.Ledger.DuplicateTx)
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	return nil
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.NATS.Password != "" {
		c.NATS.Password = "********"
	}
	if c.NATS.Token != "" {
		c.NATS.Token = "********"
	}
	return c
}

// setDefaultConfig sets default configuration values
func setDefaultConfig(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.dir", "")

	v.SetDefault("engine.shards", 0)
	v.SetDefault("engine.request_timeout", 5*time.Second)

	v.SetDefault("ledger.duplicate_tx", "overwrite")
	v.SetDefault("ledger.guard_redispute", false)

	v.SetDefault("output.sorted", false)

	v.SetDefault("export.sqlite_path", "")

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "toytxs.rejections")
	v.SetDefault("nats.username", "")
	v.SetDefault("nats.password", "")
	v.SetDefault("nats.token", "")
}
