// Package config loads application configuration from config.yaml and
// PIDGEON_* environment variables, and owns global logger setup.
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
	Weights     Weights       `yaml:"weights" mapstructure:"weights"`
	Preferences Preferences   `yaml:"preferences" mapstructure:"preferences"`
	Scrape      ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Analyze     AnalyzeConfig `yaml:"analyze" mapstructure:"analyze"`
	Log         LogConfig     `yaml:"log" mapstructure:"log"`
}

// Weights holds the per-attribute scoring coefficients. Each weight is
// expected in [0,1]; the sum is expected (not required) to be close to 1.0.
type Weights struct {
	Price      float64 `yaml:"price" mapstructure:"price"`
	Fee        float64 `yaml:"fee" mapstructure:"fee"`
	PricePerM2 float64 `yaml:"price_per_m2" mapstructure:"price_per_m2"`
	Rooms      float64 `yaml:"rooms" mapstructure:"rooms"`
	YearBuilt  float64 `yaml:"year_built" mapstructure:"year_built"`
	Elevator   float64 `yaml:"elevator" mapstructure:"elevator"`
	Balcony    float64 `yaml:"balcony" mapstructure:"balcony"`
	Floor      float64 `yaml:"floor" mapstructure:"floor"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Price + w.Fee + w.PricePerM2 + w.Rooms + w.YearBuilt +
		w.Elevator + w.Balcony + w.Floor
}

// Preferences holds the per-attribute reference points that parametrize the
// scoring functions. They are immutable for the duration of one analysis run.
type Preferences struct {
	// Price preferences (SEK).
	MaxPreferredPrice  float64 `yaml:"max_preferred_price" mapstructure:"max_preferred_price"`
	MinAcceptablePrice float64 `yaml:"min_acceptable_price" mapstructure:"min_acceptable_price"`

	// Monthly fee preferences (SEK).
	MaxPreferredFee  float64 `yaml:"max_preferred_fee" mapstructure:"max_preferred_fee"`
	MinAcceptableFee float64 `yaml:"min_acceptable_fee" mapstructure:"min_acceptable_fee"`

	// Price per square meter preferences (SEK/m2).
	MaxPreferredPricePerM2  float64 `yaml:"max_preferred_price_per_m2" mapstructure:"max_preferred_price_per_m2"`
	MinAcceptablePricePerM2 float64 `yaml:"min_acceptable_price_per_m2" mapstructure:"min_acceptable_price_per_m2"`

	// Room band.
	MinPreferredRooms float64 `yaml:"min_preferred_rooms" mapstructure:"min_preferred_rooms"`
	MaxPreferredRooms float64 `yaml:"max_preferred_rooms" mapstructure:"max_preferred_rooms"`

	// Construction year.
	MinPreferredYear       int `yaml:"min_preferred_year" mapstructure:"min_preferred_year"`
	PreferredYearThreshold int `yaml:"preferred_year_threshold" mapstructure:"preferred_year_threshold"`

	// Floor band. Zero means no preference.
	PreferredMinFloor int  `yaml:"preferred_min_floor" mapstructure:"preferred_min_floor"`
	PreferredMaxFloor int  `yaml:"preferred_max_floor" mapstructure:"preferred_max_floor"`
	AvoidGroundFloor  bool `yaml:"avoid_ground_floor" mapstructure:"avoid_ground_floor"`
}

// ScrapeConfig configures the fetching layer.
type ScrapeConfig struct {
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	MaxPages       int     `yaml:"max_pages" mapstructure:"max_pages"`
	HemnetURL      string  `yaml:"hemnet_url" mapstructure:"hemnet_url"`
	BooliURL       string  `yaml:"booli_url" mapstructure:"booli_url"`
}

// AnalyzeConfig configures the batch analysis pass.
type AnalyzeConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
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
	v.SetEnvPrefix("PIDGEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("weights.price", 0.3)
	v.SetDefault("weights.fee", 0.2)
	v.SetDefault("weights.price_per_m2", 0.25)
	v.SetDefault("weights.rooms", 0.1)
	v.SetDefault("weights.year_built", 0.1)
	v.SetDefault("weights.elevator", 0.03)
	v.SetDefault("weights.balcony", 0.02)
	v.SetDefault("weights.floor", 0.0)

	v.SetDefault("preferences.max_preferred_price", 4_000_000)
	v.SetDefault("preferences.min_acceptable_price", 1_000_000)
	v.SetDefault("preferences.max_preferred_fee", 5_000)
	v.SetDefault("preferences.min_acceptable_fee", 2_000)
	v.SetDefault("preferences.max_preferred_price_per_m2", 70_000)
	v.SetDefault("preferences.min_acceptable_price_per_m2", 30_000)
	v.SetDefault("preferences.min_preferred_rooms", 2.0)
	v.SetDefault("preferences.max_preferred_rooms", 4.0)
	v.SetDefault("preferences.min_preferred_year", 1960)
	v.SetDefault("preferences.preferred_year_threshold", 1990)
	v.SetDefault("preferences.preferred_min_floor", 2)
	v.SetDefault("preferences.preferred_max_floor", 6)
	v.SetDefault("preferences.avoid_ground_floor", true)

	v.SetDefault("scrape.user_agent", "pidgeon/1.0 (+https://github.com/Dekamik/pidgeon)")
	v.SetDefault("scrape.timeout_secs", 30)
	v.SetDefault("scrape.requests_per_sec", 0.33)
	v.SetDefault("scrape.max_pages", 10)
	v.SetDefault("scrape.hemnet_url", "https://www.hemnet.se/bostader?location_ids%5B%5D=17744")
	v.SetDefault("scrape.booli_url", "https://www.booli.se/bostader/stockholm")

	v.SetDefault("analyze.concurrency", 8)

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
