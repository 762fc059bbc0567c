package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned (wrapped) when a configuration value fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Global configuration structure.
type Global struct {
	// Dataset sources: http(s) URLs, file:// URLs, or local paths.
	MasterCSV     string `mapstructure:"master_csv" yaml:"master_csv" validate:"required"`
	SpreadsCSV    string `mapstructure:"spreads_csv" yaml:"spreads_csv"`
	RegressionCSV string `mapstructure:"regression_csv" yaml:"regression_csv"`

	HTTPTimeoutSec int  `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec" validate:"gte=0"`
	Strict         bool `mapstructure:"strict" yaml:"strict"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`

	// Regression table defaults
	Decimals int    `mapstructure:"decimals" yaml:"decimals" validate:"gte=1,lte=10"`
	SEType   string `mapstructure:"se_type" yaml:"se_type" validate:"required"`

	SnapshotPath string `mapstructure:"snapshot_path" yaml:"snapshot_path"`
}

var validate = validator.New()

// Validate checks field constraints. Failures wrap ErrInvalid.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Set assigns a value by its yaml key and validates the result.
func (c *Global) Set(key, val string) error {
	switch key {
	case "master_csv":
		c.MasterCSV = val
	case "spreads_csv":
		c.SpreadsCSV = val
	case "regression_csv":
		c.RegressionCSV = val
	case "http_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: invalid int for http_timeout_sec: %v", ErrInvalid, val)
		}
		c.HTTPTimeoutSec = i
	case "strict":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: invalid bool for strict: %v", ErrInvalid, val)
		}
		c.Strict = b
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_format":
		c.LogFormat = strings.ToLower(val)
	case "decimals":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: invalid int for decimals: %v", ErrInvalid, val)
		}
		c.Decimals = i
	case "se_type":
		c.SEType = val
	case "snapshot_path":
		c.SnapshotPath = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return c.Validate()
}

// Dir returns ~/.spreaddash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".spreaddash"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.spreaddash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SPREADDASH")
	v.AutomaticEnv()

	v.SetDefault("master_csv", "data/master_dataset.csv")
	v.SetDefault("spreads_csv", "data/spreads_wide.csv")
	v.SetDefault("regression_csv", "data/regression_coefficients.csv")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("strict", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("decimals", 2)
	v.SetDefault("se_type", "cluster-robust")
	v.SetDefault("snapshot_path", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.SnapshotPath == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.SnapshotPath = filepath.Join(dir, "snapshots.db")
	}
	return &c, nil
}
