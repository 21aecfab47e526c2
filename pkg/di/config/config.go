package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	logconfig "github.com/lintang-b-s/geo-analysis/pkg/logger/config"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig
	Log      logconfig.Configuration
	Analysis AnalysisConfig
}

type APIConfig struct {
	Port    int
	Timeout time.Duration
}

// AnalysisConfig. defaults for analysis parameters a request leaves out, plus input limits.
type AnalysisConfig struct {
	GridSizeKm          float64
	ProximityKm         float64
	TimeThresholdDays   int
	MaxPairwiseEntities int // O(n^2) operations reject inputs above this
	IndexThreshold      int // above this many entities intersections use the latitude-band index
}

func setDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "60s")

	viper.SetDefault("LOG_LEVEL", logconfig.INFO_LEVEL)
	viper.SetDefault("LOG_TIME_FORMAT", time.RFC3339Nano)

	viper.SetDefault("ANALYSIS_GRID_SIZE_KM", 10.0)
	viper.SetDefault("ANALYSIS_PROXIMITY_KM", 10.0)
	viper.SetDefault("ANALYSIS_TIME_THRESHOLD_DAYS", 7)
	viper.SetDefault("ANALYSIS_MAX_PAIRWISE_ENTITIES", 5000)
	viper.SetDefault("ANALYSIS_INDEX_THRESHOLD", 500)
}

// New reads config.yaml from the working directory (optional) and the environment.
func New() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var typeErr viper.ConfigFileNotFoundError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
	}

	config := Load()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load builds a Config from the current viper state.
func Load() *Config {
	return &Config{
		API: APIConfig{
			Port:    viper.GetInt("API_PORT"),
			Timeout: viper.GetDuration("API_TIMEOUT"),
		},
		Log: logconfig.Configuration{
			Level:      viper.GetInt("LOG_LEVEL"),
			TimeFormat: viper.GetString("LOG_TIME_FORMAT"),
		},
		Analysis: LoadAnalysis(),
	}
}

func LoadAnalysis() AnalysisConfig {
	return AnalysisConfig{
		GridSizeKm:          viper.GetFloat64("ANALYSIS_GRID_SIZE_KM"),
		ProximityKm:         viper.GetFloat64("ANALYSIS_PROXIMITY_KM"),
		TimeThresholdDays:   viper.GetInt("ANALYSIS_TIME_THRESHOLD_DAYS"),
		MaxPairwiseEntities: viper.GetInt("ANALYSIS_MAX_PAIRWISE_ENTITIES"),
		IndexThreshold:      viper.GetInt("ANALYSIS_INDEX_THRESHOLD"),
	}
}

func (c *Config) Validate() error {
	var errs []string

	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT must be 1-65535, got %d", c.API.Port))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "API_TIMEOUT must be positive")
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	errs = append(errs, c.Analysis.validate()...)

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (a AnalysisConfig) validate() []string {
	var errs []string
	if !(a.GridSizeKm > 0) {
		errs = append(errs, "ANALYSIS_GRID_SIZE_KM must be positive")
	}
	if a.ProximityKm < 0 {
		errs = append(errs, "ANALYSIS_PROXIMITY_KM must not be negative")
	}
	if a.TimeThresholdDays < 0 {
		errs = append(errs, "ANALYSIS_TIME_THRESHOLD_DAYS must not be negative")
	}
	if a.MaxPairwiseEntities <= 0 {
		errs = append(errs, "ANALYSIS_MAX_PAIRWISE_ENTITIES must be positive")
	}
	if a.IndexThreshold < 0 {
		errs = append(errs, "ANALYSIS_INDEX_THRESHOLD must not be negative")
	}
	return errs
}

// Watch calls onChange with the reloaded analysis settings whenever config.yaml changes.
// invalid edits are reported through onError and ignored. returns false when no config file was loaded.
func Watch(onChange func(AnalysisConfig, fsnotify.Event), onError func(error)) bool {
	if viper.ConfigFileUsed() == "" {
		return false
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		analysis := LoadAnalysis()
		if errs := analysis.validate(); len(errs) > 0 {
			onError(fmt.Errorf("ignoring %s: %s", e.Name, strings.Join(errs, ", ")))
			return
		}
		onChange(analysis, e)
	})
	viper.WatchConfig()
	return true
}
