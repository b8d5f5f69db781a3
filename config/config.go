package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is used when neither a path nor QSR_CONFIG is given.
	DefaultPath = "config/config.yaml"

	// EnvPrefix prefixes every environment override, e.g. QSR_GENERATOR_SEED.
	EnvPrefix = "QSR"

	dateLayout = "2006-01-02"
)

// Config holds the experiment configuration loaded from YAML, with
// environment overrides applied on top.
type Config struct {
	Model     ModelConfig     `yaml:"model" ignored:"true"`
	MLflow    TrackingConfig  `yaml:"mlflow"`
	Data      DataConfig      `yaml:"data"`
	Generator GeneratorConfig `yaml:"generator"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	LogLevel  string          `yaml:"log_level" split_words:"true" validate:"omitempty,oneof=debug info warn error"`
}

// ModelConfig carries the forecasting model settings. Hyperparameters are
// passed through untouched to the training side.
type ModelConfig struct {
	LightGBM map[string]any `yaml:"lightgbm" validate:"required"`
	Features FeatureConfig  `yaml:"features"`
}

// FeatureConfig lists the feature engineering options.
type FeatureConfig struct {
	LagDays           []int `yaml:"lag_days" validate:"dive,min=1"`
	RollingWindows    []int `yaml:"rolling_windows" validate:"dive,min=1"`
	IncludeHolidays   bool  `yaml:"include_holidays"`
	IncludeWeather    bool  `yaml:"include_weather"`
	IncludePromotions bool  `yaml:"include_promotions"`
}

// TrackingConfig names the experiment-tracking namespace and backend.
type TrackingConfig struct {
	TrackingDB     string `yaml:"tracking_db" split_words:"true" validate:"required"`
	ExperimentName string `yaml:"experiment_name" split_words:"true" validate:"required"`
	LogGeneration  bool   `yaml:"log_generation" split_words:"true"`
}

// DataConfig locates the dataset files.
type DataConfig struct {
	Dir               string `yaml:"dir" validate:"required"`
	SalesFile         string `yaml:"sales_file" split_words:"true" validate:"required"`
	StoreMetadataFile string `yaml:"store_metadata_file" split_words:"true" validate:"required"`
	TrainFile         string `yaml:"train_file" split_words:"true" validate:"required"`
	ValidationFile    string `yaml:"validation_file" split_words:"true" validate:"required"`
}

// GeneratorConfig holds the inputs of the synthetic data generator.
type GeneratorConfig struct {
	Seed       uint64  `yaml:"seed"`
	Stores     int     `yaml:"stores" validate:"min=1,max=999"`
	StartDate  string  `yaml:"start_date" split_words:"true" validate:"required,datetime=2006-01-02"`
	EndDate    string  `yaml:"end_date" split_words:"true" validate:"required,datetime=2006-01-02"`
	GrowthRate float64 `yaml:"growth_rate" split_words:"true" validate:"gt=-1"`
}

// PostgresConfig configures the optional database export.
type PostgresConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host" validate:"required_if=Enabled true"`
	Port     string `yaml:"port" validate:"required_if=Enabled true"`
	User     string `yaml:"user" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	DB       string `yaml:"db" validate:"required_if=Enabled true"`
	SSLMode  string `yaml:"sslmode" split_words:"true"`
}

// MetricsConfig configures the Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// DataPaths are the resolved dataset file locations.
type DataPaths struct {
	SalesFile         string
	StoreMetadataFile string
	TrainFile         string
	ValidationFile    string
}

// Load reads a .env file if present, parses the YAML file at path and
// applies QSR_* environment overrides. An empty path falls back to
// QSR_CONFIG and then DefaultPath.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies environment overrides and validates the
// result. Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the generator date range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, _, err := c.Generator.Dates(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ModelParams returns the model hyperparameters.
func (c *Config) ModelParams() map[string]any {
	return c.Model.LightGBM
}

// FeatureConfig returns the feature engineering options.
func (c *Config) FeatureConfig() FeatureConfig {
	return c.Model.Features
}

// TrackingConfig returns the experiment-tracking settings.
func (c *Config) TrackingConfig() TrackingConfig {
	return c.MLflow
}

// DataPaths joins the data directory with each dataset file name.
func (c *Config) DataPaths() DataPaths {
	return DataPaths{
		SalesFile:         filepath.Join(c.Data.Dir, c.Data.SalesFile),
		StoreMetadataFile: filepath.Join(c.Data.Dir, c.Data.StoreMetadataFile),
		TrainFile:         filepath.Join(c.Data.Dir, c.Data.TrainFile),
		ValidationFile:    filepath.Join(c.Data.Dir, c.Data.ValidationFile),
	}
}

// Dates parses the generator range. The end date must not precede the
// start date.
func (g GeneratorConfig) Dates() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, g.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("generator.start_date: %w", err)
	}
	end, err = time.Parse(dateLayout, g.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("generator.end_date: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("generator: end_date %s before start_date %s", g.EndDate, g.StartDate)
	}
	return start, end, nil
}

// DSN returns the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return "host=" + p.Host +
		" port=" + p.Port +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DB +
		" sslmode=" + sslMode
}
