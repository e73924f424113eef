package common

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Extraction backends.
const (
	BackendNative    = "native"
	BackendPdftotext = "pdftotext"
)

// Config holds all application configuration
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Export   ExportConfig   `mapstructure:"export"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Log      LogConfig      `mapstructure:"log"`
}

// PathsConfig holds the run root and the input/output directories relative to it.
type PathsConfig struct {
	Root      string `mapstructure:"root"`
	InputDir  string `mapstructure:"input_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

// ExtractConfig holds PDF text extraction configuration
type ExtractConfig struct {
	Backend         string        `mapstructure:"backend"`
	Pdftotext       string        `mapstructure:"pdftotext"`
	MaxPages        int           `mapstructure:"max_pages"`
	DocumentTimeout time.Duration `mapstructure:"document_timeout"`
}

// ClassifyConfig holds section classifier configuration
type ClassifyConfig struct {
	RulesFile string `mapstructure:"rules_file"`
}

// ExportConfig holds spreadsheet artifact configuration
type ExportConfig struct {
	Bilingual bool   `mapstructure:"bilingual"`
	SheetName string `mapstructure:"sheet_name"`
}

// LedgerConfig holds run ledger configuration
type LedgerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every config key with its default so env overrides resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("paths.root", ".")
	v.SetDefault("paths.input_dir", "input")
	v.SetDefault("paths.output_dir", "output")
	v.SetDefault("extract.backend", BackendNative)
	v.SetDefault("extract.pdftotext", "pdftotext")
	v.SetDefault("extract.max_pages", 0)
	v.SetDefault("extract.document_timeout", 2*time.Minute)
	v.SetDefault("classify.rules_file", "")
	v.SetDefault("export.bilingual", false)
	v.SetDefault("export.sheet_name", "MSDS")
	v.SetDefault("ledger.enabled", true)
	v.SetDefault("ledger.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// NewViper returns a viper instance with defaults and MSDS_ env overrides.
// configFile may be empty, in which case msds.yaml is looked up in searchDir.
func NewViper(configFile, searchDir string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("msds")
		v.SetConfigType("yaml")
		if searchDir == "" {
			searchDir = "."
		}
		v.AddConfigPath(searchDir)
	}
	v.SetEnvPrefix("MSDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the optional config file and unmarshals the result.
// A missing config file is not an error when none was explicitly requested.
func LoadConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "decode config", err)
	}
	return &cfg, nil
}

// InputPath returns the input directory resolved against the run root.
func (c *Config) InputPath() string {
	return resolve(c.Paths.Root, c.Paths.InputDir)
}

// OutputPath returns the output directory resolved against the run root.
func (c *Config) OutputPath() string {
	return resolve(c.Paths.Root, c.Paths.OutputDir)
}

// LedgerPath returns the ledger database path, defaulting into the output directory.
func (c *Config) LedgerPath(defaultName string) string {
	if c.Ledger.Path != "" {
		return resolve(c.Paths.Root, c.Ledger.Path)
	}
	return filepath.Join(c.OutputPath(), defaultName)
}

// RulesPath returns the classifier rules file resolved against the run root, or "".
func (c *Config) RulesPath() string {
	if c.Classify.RulesFile == "" {
		return ""
	}
	return resolve(c.Paths.Root, c.Classify.RulesFile)
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("paths.root", c.Paths.Root, Required).
		Field("paths.input_dir", c.Paths.InputDir, Required).
		Field("paths.output_dir", c.Paths.OutputDir, Required).
		Field("extract.backend", c.Extract.Backend, OneOf(BackendNative, BackendPdftotext)).
		Field("extract.max_pages", c.Extract.MaxPages, NonNegative).
		Field("export.sheet_name", c.Export.SheetName, Required, MaxLength(31)).
		Field("log.level", strings.ToLower(c.Log.Level), OneOf("debug", "info", "warn", "error")).
		Field("log.format", strings.ToLower(c.Log.Format), OneOf("json", "text"))
	if c.Extract.Backend == BackendPdftotext {
		v.Field("extract.pdftotext", c.Extract.Pdftotext, Required)
	}
	if err := v.Error(); err != nil {
		return NewAppError("CONFIG_ERROR", "invalid configuration", errors.Join(ErrInvalidInput, err))
	}
	return nil
}
