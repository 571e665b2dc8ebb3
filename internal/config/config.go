// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	CRS      CRSConfig      `yaml:"crs" mapstructure:"crs"`
	Boundary BoundaryConfig `yaml:"boundary" mapstructure:"boundary"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// RegistryConfig locates the county CRS table. An empty or unreadable
// path falls back to the embedded defaults.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// CRSConfig locates the EPSG projection catalog.
type CRSConfig struct {
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`
}

// BoundaryConfig configures the county boundary source used by the
// polygon-containment resolution fallback.
type BoundaryConfig struct {
	// Source is "tiger" or "geojson".
	Source      string `yaml:"source" mapstructure:"source"`
	TigerURL    string `yaml:"tiger_url" mapstructure:"tiger_url"`
	GeoJSONURL  string `yaml:"geojson_url" mapstructure:"geojson_url"`
	CacheDir    string `yaml:"cache_dir" mapstructure:"cache_dir"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ResolverConfig configures optional resolution tiers.
type ResolverConfig struct {
	// PostGISURL enables the PostGIS containment tier when set.
	PostGISURL string `yaml:"postgis_url" mapstructure:"postgis_url"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INGCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("boundary.source", "tiger")
	v.SetDefault("boundary.cache_dir", ".ingcs-cache")
	v.SetDefault("boundary.timeout_secs", 60)
	v.SetDefault("store.path", "ingcs-runs.db")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a command is about to rely on. mode is
// the command name.
func (c *Config) Validate(mode string) error {
	var missing []string

	if c.Boundary.Source != "tiger" && c.Boundary.Source != "geojson" {
		missing = append(missing, "boundary.source must be tiger or geojson")
	}
	if c.Boundary.TimeoutSecs <= 0 {
		missing = append(missing, "boundary.timeout_secs must be > 0")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	case "transform", "point", "counties", "boundary", "runs":
		// No extra requirements beyond the shared checks.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: invalid configuration: %s", strings.Join(missing, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
