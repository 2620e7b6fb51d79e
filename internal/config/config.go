package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/resolver"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the complete application configuration.
type Config struct {
	Database  DatabaseConfig
	Logging   LoggingConfig
	Knowledge KnowledgeConfig
	Resolver  ResolverConfig
}

// DatabaseConfig selects and locates the merchant directory.
type DatabaseConfig struct {
	Driver string
	Path   string
	URL    string
}

// ResolverConfig tunes resolution.
type ResolverConfig struct {
	CacheThreshold      float64
	ConfirmedConfidence float64
	ChunkSize           int
	RecordDetections    bool
	TrackMatches        bool
}

// KnowledgeConfig points at optional extra platform definitions.
type KnowledgeConfig struct {
	PlatformsFile string
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("resolver.cache_threshold", resolver.DefaultCacheThreshold)
	v.SetDefault("resolver.confirmed_confidence", resolver.DefaultConfirmedConfidence)
	v.SetDefault("resolver.chunk_size", resolver.DefaultChunkSize)
	v.SetDefault("resolver.record_detections", false)
	v.SetDefault("resolver.track_matches", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v, applying defaults and validating it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
			Path:   ExpandPath(v.GetString("database.path")),
			URL:    v.GetString("database.url"),
		},
		Resolver: ResolverConfig{
			CacheThreshold:      v.GetFloat64("resolver.cache_threshold"),
			ConfirmedConfidence: v.GetFloat64("resolver.confirmed_confidence"),
			ChunkSize:           v.GetInt("resolver.chunk_size"),
			RecordDetections:    v.GetBool("resolver.record_detections"),
			TrackMatches:        v.GetBool("resolver.track_matches"),
		},
		Knowledge: KnowledgeConfig{
			PlatformsFile: ExpandPath(v.GetString("knowledge.platforms_file")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", common.ErrMissingConfig)
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url is required for postgres", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedDB, c.Database.Driver)
	}

	if c.Resolver.CacheThreshold <= 0 || c.Resolver.CacheThreshold > 1 {
		return fmt.Errorf("%w: resolver.cache_threshold must be in (0, 1]", common.ErrInvalidConfig)
	}
	if c.Resolver.ConfirmedConfidence <= 0 || c.Resolver.ConfirmedConfidence > 1 {
		return fmt.Errorf("%w: resolver.confirmed_confidence must be in (0, 1]", common.ErrInvalidConfig)
	}
	if c.Resolver.ConfirmedConfidence < c.Resolver.CacheThreshold {
		return fmt.Errorf("%w: resolver.confirmed_confidence must not be below resolver.cache_threshold", common.ErrInvalidConfig)
	}
	if c.Resolver.ChunkSize <= 0 {
		return fmt.Errorf("%w: resolver.chunk_size must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// ResolverOptions converts the resolver settings into resolver.Options.
func (c Config) ResolverOptions() resolver.Options {
	return resolver.Options{
		CacheThreshold:      c.Resolver.CacheThreshold,
		ConfirmedConfidence: c.Resolver.ConfirmedConfidence,
		ChunkSize:           c.Resolver.ChunkSize,
		RecordDetections:    c.Resolver.RecordDetections,
		TrackMatches:        c.Resolver.TrackMatches,
	}
}
