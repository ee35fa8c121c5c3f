// Package config loads run settings from defaults, an optional config file,
// a .env file, POTABILITY_* environment variables and bound CLI flags.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds every tunable of the pipeline.
type Config struct {
	DataPath  string `mapstructure:"data_path"`
	Target    string `mapstructure:"target"`
	ModelPath string `mapstructure:"model_path"`
	PlotDir   string `mapstructure:"plot_dir"`
	DBPath    string `mapstructure:"db_path"`

	Impute          string  `mapstructure:"impute"`
	TestSize        float64 `mapstructure:"test_size"`
	Seed            int64   `mapstructure:"seed"`
	Epochs          int     `mapstructure:"epochs"`
	BatchSize       int     `mapstructure:"batch_size"`
	ValidationSplit float64 `mapstructure:"validation_split"`
	Patience        int     `mapstructure:"patience"`
	LearningRate    float64 `mapstructure:"learning_rate"`
	L1              float64 `mapstructure:"l1"`
	L2              float64 `mapstructure:"l2"`
	Hidden          []int   `mapstructure:"hidden"`
	Threshold       float64 `mapstructure:"threshold"`
	Baseline        bool    `mapstructure:"baseline"`

	LogLevel string `mapstructure:"log_level"`
	Cron     string `mapstructure:"cron"`
}

// EnvPrefix prefixes environment overrides, e.g. POTABILITY_EPOCHS.
const EnvPrefix = "POTABILITY"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_path", "../data/water_potability.csv")
	v.SetDefault("target", "Potability")
	v.SetDefault("model_path", "water_quality_model.json")
	v.SetDefault("plot_dir", ".")
	v.SetDefault("db_path", "runs.db")
	v.SetDefault("impute", "mean")
	v.SetDefault("test_size", 0.2)
	v.SetDefault("seed", 42)
	v.SetDefault("epochs", 100)
	v.SetDefault("batch_size", 32)
	v.SetDefault("validation_split", 0.2)
	v.SetDefault("patience", 10)
	v.SetDefault("learning_rate", 0.001)
	v.SetDefault("l1", 0.001)
	v.SetDefault("l2", 0.001)
	v.SetDefault("hidden", []int{64, 64})
	v.SetDefault("threshold", 0.5)
	v.SetDefault("baseline", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("cron", "@daily")
}

// Default returns the configuration with nothing overridden.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads configuration into a Config. file may be empty. A missing .env
// in the working directory is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", file)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return c, c.Validate()
}

// Validate checks ranges that would otherwise fail deep inside training.
func (c Config) Validate() error {
	switch {
	case c.DataPath == "":
		return errors.New("data_path is required")
	case c.Target == "":
		return errors.New("target is required")
	case c.TestSize <= 0 || c.TestSize >= 1:
		return errors.Errorf("test_size must be in (0, 1), got %v", c.TestSize)
	case c.ValidationSplit < 0 || c.ValidationSplit >= 1:
		return errors.Errorf("validation_split must be in [0, 1), got %v", c.ValidationSplit)
	case c.Epochs < 1:
		return errors.Errorf("epochs must be positive, got %d", c.Epochs)
	case c.BatchSize < 1:
		return errors.Errorf("batch_size must be positive, got %d", c.BatchSize)
	case c.Patience < 0:
		return errors.Errorf("patience must not be negative, got %d", c.Patience)
	case c.LearningRate <= 0:
		return errors.Errorf("learning_rate must be positive, got %v", c.LearningRate)
	case c.Threshold <= 0 || c.Threshold >= 1:
		return errors.Errorf("threshold must be in (0, 1), got %v", c.Threshold)
	case len(c.Hidden) == 0:
		return errors.New("hidden needs at least one layer")
	}
	for i, u := range c.Hidden {
		if u < 1 {
			return errors.Errorf("hidden layer %d has %d units", i, u)
		}
	}
	return nil
}
