package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRACKNEST_SERVER_ADDR.
const EnvPrefix = "TRACKNEST"

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Statement StatementConfig `mapstructure:"statement"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UploadConfig limits statement uploads.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// StatementConfig tunes statement extraction.
type StatementConfig struct {
	MaxPages int           `mapstructure:"max_pages"`
	Layout   string        `mapstructure:"layout"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "tracknest", "tracknest.db"))
	v.SetDefault("upload.max_bytes", int64(5<<20))
	v.SetDefault("statement.max_pages", 40)
	v.SetDefault("statement.layout", "auto")
	v.SetDefault("statement.timeout", 30*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from defaults, an optional YAML file and the
// environment. An empty cfgFile searches $HOME/.config/tracknest.
func Load(cfgFile string) (Config, error) {
	return LoadViper(viper.New(), cfgFile)
}

// LoadViper is Load on a caller-supplied viper instance, so command-line
// flags bound to v take precedence over file and environment.
func LoadViper(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tracknest"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("config: server.addr is empty")
	case c.Database.Path == "":
		return errors.New("config: database.path is empty")
	case c.Upload.MaxBytes <= 0:
		return fmt.Errorf("config: upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	case c.Statement.MaxPages <= 0:
		return fmt.Errorf("config: statement.max_pages must be positive, got %d", c.Statement.MaxPages)
	case c.Statement.Timeout <= 0:
		return fmt.Errorf("config: statement.timeout must be positive, got %s", c.Statement.Timeout)
	}
	return nil
}
