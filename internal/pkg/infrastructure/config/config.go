package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

//Config holds all settings of the service
type Config struct {
	Service struct {
		Name string `mapstructure:"name"`
		Port string `mapstructure:"port"`
	} `mapstructure:"service"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Database struct {
		Driver   string `mapstructure:"driver"` // memory | sqlite | postgres
		Path     string `mapstructure:"path"`
		Host     string `mapstructure:"host"`
		User     string `mapstructure:"user"`
		Name     string `mapstructure:"name"`
		Password string `mapstructure:"password"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Messaging struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"messaging"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//Load reads the configuration from defaults, an optional yaml file pointed out by
//SMARTHOUSE_CONFIG and SMARTHOUSE_* environment variables, in increasing priority
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("smarthouse")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service.name", "smart-house-registry")
	v.SetDefault("service.port", "8880")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.path", "smart-house.db")
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "require")
	v.SetDefault("messaging.enabled", false)
	v.SetDefault("metrics.enabled", true)

	if cfgFile := os.Getenv("SMARTHOUSE_CONFIG"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(c *Config) error {
	if strings.TrimSpace(c.Service.Port) == "" {
		return errors.New("service.port must not be empty")
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database.path must be set when using sqlite")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Database.Host) == "" {
			return errors.New("database.host must be set when using postgres")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}

	return nil
}
