// Package config loads application configuration via viper and initializes
// the global zap logger.
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
	Inputs   InputsConfig   `yaml:"inputs" mapstructure:"inputs"`
	Join     JoinConfig     `yaml:"join" mapstructure:"join"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Legend   LegendConfig   `yaml:"legend" mapstructure:"legend"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputsConfig locates the two input files.
type InputsConfig struct {
	Dataset      string `yaml:"dataset" mapstructure:"dataset"`             // CSV or XLSX indicator table
	Boundaries   string `yaml:"boundaries" mapstructure:"boundaries"`       // GeoJSON or shapefile
	NameProperty string `yaml:"name_property" mapstructure:"name_property"` // GeoJSON property / shapefile field with the county name
	SheetName    string `yaml:"sheet_name" mapstructure:"sheet_name"`       // XLSX only
}

// JoinConfig controls the county-name join.
type JoinConfig struct {
	Policy    string `yaml:"policy" mapstructure:"policy"` // drop | strict
	Normalize bool   `yaml:"normalize" mapstructure:"normalize"`
}

// ClassifyConfig controls bivariate classification.
type ClassifyConfig struct {
	K           int    `yaml:"k" mapstructure:"k"`
	Palette     string `yaml:"palette" mapstructure:"palette"`
	PaletteFile string `yaml:"palette_file" mapstructure:"palette_file"` // overrides Palette when set
}

// MapConfig controls canvas geometry and styling.
type MapConfig struct {
	Title        string  `yaml:"title" mapstructure:"title"`
	Width        int     `yaml:"width" mapstructure:"width"`
	Ratio        float64 `yaml:"ratio" mapstructure:"ratio"` // height = width * ratio
	Background   string  `yaml:"background" mapstructure:"background"`
	BordersWidth float64 `yaml:"borders_width" mapstructure:"borders_width"`
	BordersColor string  `yaml:"borders_color" mapstructure:"borders_color"`
	Labels       bool    `yaml:"labels" mapstructure:"labels"`
}

// LegendConfig controls the bivariate legend block.
type LegendConfig struct {
	Top    float64 `yaml:"top" mapstructure:"top"`     // vertical position of the top right corner (0..1)
	Right  float64 `yaml:"right" mapstructure:"right"` // horizontal position of the top right corner (0..1)
	BoxW   float64 `yaml:"box_w" mapstructure:"box_w"` // width of each square as a fraction of canvas width
	XLabel string  `yaml:"x_label" mapstructure:"x_label"`
	YLabel string  `yaml:"y_label" mapstructure:"y_label"`
}

// OutputConfig locates the rendered artifacts.
type OutputConfig struct {
	Path        string `yaml:"path" mapstructure:"path"`
	ScatterPath string `yaml:"scatter_path" mapstructure:"scatter_path"` // diagnostic scatter, empty = skip
}

// FetchConfig configures remote boundary downloads.
type FetchConfig struct {
	DataDir     string  `yaml:"data_dir" mapstructure:"data_dir"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// StoreConfig configures run persistence. An empty driver disables the store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite | postgres | ""
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Path        string `yaml:"path" mapstructure:"path"` // sqlite file
}

// ServerConfig configures the map server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("CHOROMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("inputs.name_property", "COUNTY_NAME")
	v.SetDefault("join.policy", "drop")
	v.SetDefault("join.normalize", false)
	v.SetDefault("classify.k", 3)
	v.SetDefault("classify.palette", "pink-blue")
	v.SetDefault("map.title", "Bivariate choropleth map")
	v.SetDefault("map.width", 1000)
	v.SetDefault("map.ratio", 0.8)
	v.SetDefault("map.background", "#ffffff")
	v.SetDefault("map.borders_width", 0.5)
	v.SetDefault("map.borders_color", "#f8f8f8")
	v.SetDefault("map.labels", true)
	v.SetDefault("legend.top", 0.85)
	v.SetDefault("legend.right", 0.95)
	v.SetDefault("legend.box_w", 0.04)
	v.SetDefault("legend.x_label", "Higher x value")
	v.SetDefault("legend.y_label", "Higher y value")
	v.SetDefault("output.path", "map.png")
	v.SetDefault("fetch.data_dir", "data")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_sec", 2)
	v.SetDefault("fetch.user_agent", "choromap/1.0")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.path", "choromap.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
