package main

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port                   int    `yaml:"port" validate:"gt=0,lte=65535"`
	StaticDir              string `yaml:"staticDir" validate:"required"`
	ShutdownTimeoutSeconds int    `yaml:"shutdownTimeoutSeconds" validate:"gt=0"`
}

// MovebankConfig contains the fixed query sent to the telemetry service
type MovebankConfig struct {
	BaseURL                string `yaml:"baseURL" validate:"required,url"`
	StudyID                int64  `yaml:"studyID" validate:"gt=0"`
	SensorType             string `yaml:"sensorType" validate:"required"`
	MaxEventsPerIndividual int    `yaml:"maxEventsPerIndividual" validate:"gt=0"`
	SortSamples            bool   `yaml:"sortSamples"`
	TimeoutMS              int    `yaml:"timeoutMS" validate:"gt=0"`
}

// RefreshConfig controls the periodic refresh
type RefreshConfig struct {
	IntervalMS int `yaml:"intervalMS" validate:"gt=0"`
}

// MapConfig controls figure rendering
type MapConfig struct {
	AccessToken string  `yaml:"accessToken"`
	Style       string  `yaml:"style" validate:"required"`
	LineWidth   float64 `yaml:"lineWidth" validate:"gt=0"`
	LegendTitle string  `yaml:"legendTitle"`
	TimeZone    string  `yaml:"timeZone"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Movebank MovebankConfig `yaml:"movebank" validate:"required"`
	Refresh  RefreshConfig  `yaml:"refresh" validate:"required"`
	Map      MapConfig      `yaml:"map" validate:"required"`
}

func defaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:                   8080,
			StaticDir:              "./static",
			ShutdownTimeoutSeconds: 10,
		},
		Movebank: MovebankConfig{
			BaseURL:                "https://www.movebank.org/movebank/service/public/json",
			StudyID:                16880941,
			SensorType:             "gps",
			MaxEventsPerIndividual: 100,
			TimeoutMS:              30000,
		},
		Refresh: RefreshConfig{IntervalMS: 300000},
		Map: MapConfig{
			Style:       "dark",
			LineWidth:   2,
			LegendTitle: "Individuals",
		},
	}
}

// LoadAppConfig reads path over the defaults, applies environment overrides
// and validates the result. A missing file is not an error.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return AppConfig{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return AppConfig{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.Map.AccessToken = getEnv("MAPBOX_ACCESS_TOKEN", cfg.Map.AccessToken)
	if v := getEnv("MOVEBANK_STUDY_ID", ""); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		cfg.Movebank.StudyID = id
	}
	if v := getEnv("HTTP_PORT", ""); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		cfg.Server.Port = port
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
