package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Router    RouterConfig    `mapstructure:"router"`
	Map       MapConfig       `mapstructure:"map"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	UI        UIConfig        `mapstructure:"ui"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// GeocoderConfig configures the Nominatim search client.
type GeocoderConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	CountryCode string `mapstructure:"country_code"`
	Region      string `mapstructure:"region"`
	Country     string `mapstructure:"country"`
	UserAgent   string `mapstructure:"user_agent"`
	CacheTTL    int    `mapstructure:"cache_ttl"` // seconds, 0 disables caching
}

// RouterConfig configures the openrouteservice directions client.
type RouterConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Profile string `mapstructure:"profile"`
}

// MapConfig is the initial view of every map session.
type MapConfig struct {
	CenterLat   float64 `mapstructure:"center_lat"`
	CenterLon   float64 `mapstructure:"center_lon"`
	Zoom        int     `mapstructure:"zoom"`
	TileURL     string  `mapstructure:"tile_url"`
	Attribution string  `mapstructure:"attribution"`
	RouteColor  string  `mapstructure:"route_color"`
}

type PlannerConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	SessionIdle time.Duration `mapstructure:"session_idle"`
}

// ArchiveConfig enables uploading finished routes to S3 as GeoJSON.
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Region  string `mapstructure:"region"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
}

type UIConfig struct {
	Locale string `mapstructure:"locale"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "routemap")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "routemap")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.prefix", "routemap:")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.country_code", "at")
	v.SetDefault("geocoder.region", "Steiermark")
	v.SetDefault("geocoder.country", "Austria")
	v.SetDefault("geocoder.user_agent", "routemap/1.0")
	v.SetDefault("geocoder.cache_ttl", 86400)
	v.SetDefault("router.base_url", "https://api.openrouteservice.org")
	v.SetDefault("router.api_key", "")
	v.SetDefault("router.profile", "driving-car")
	v.SetDefault("map.center_lat", 47.0707)
	v.SetDefault("map.center_lon", 15.4395)
	v.SetDefault("map.zoom", 9)
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors")
	v.SetDefault("map.route_color", "blue")
	v.SetDefault("planner.timeout", 20*time.Second)
	v.SetDefault("planner.http_timeout", 10*time.Second)
	v.SetDefault("planner.session_idle", 30*time.Minute)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "eu-central-1")
	v.SetDefault("archive.prefix", "routes/")
	v.SetDefault("ui.locale", "hr")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: ROUTEMAP_ROUTER_API_KEY → router.api_key
	v.SetEnvPrefix("ROUTEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "database.max_conns must be positive")
		}
	}
	if c.Geocoder.BaseURL == "" {
		errs = append(errs, "geocoder.base_url is required")
	}
	if c.Geocoder.UserAgent == "" {
		errs = append(errs, "geocoder.user_agent is required by the Nominatim usage policy")
	}
	if c.Geocoder.CacheTTL < 0 {
		errs = append(errs, "geocoder.cache_ttl must not be negative")
	}
	if c.Router.BaseURL == "" {
		errs = append(errs, "router.base_url is required")
	}
	if c.Router.Profile == "" {
		errs = append(errs, "router.profile is required")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		errs = append(errs, fmt.Sprintf("map.zoom must be 0-19, got %d", c.Map.Zoom))
	}
	if c.Planner.Timeout <= 0 {
		errs = append(errs, "planner.timeout must be positive")
	}
	if c.Planner.HTTPTimeout <= 0 {
		errs = append(errs, "planner.http_timeout must be positive")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		errs = append(errs, "archive.bucket is required when archive.enabled")
	}
	switch c.UI.Locale {
	case "hr", "en":
	default:
		errs = append(errs, fmt.Sprintf("ui.locale must be hr or en, got %q", c.UI.Locale))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
