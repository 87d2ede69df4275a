// Package conf loads and exposes the application settings.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/semantika/orgforge/internal/errors"
)

// Settings is the root configuration structure.
type Settings struct {
	Debug bool `yaml:"debug"` // true to enable debug level logging

	Main     MainSettings     `yaml:"main"`
	Server   ServerSettings   `yaml:"server"`
	Wikidata WikidataSettings `yaml:"wikidata"`
	Registry RegistrySettings `yaml:"registry"`
	Mistral  MistralSettings  `yaml:"mistral"`
	Export   ExportSettings   `yaml:"export"`
}

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string      `yaml:"name"` // name of this node, used in the user agent
	Log  LogSettings `yaml:"log"`
}

// LogSettings describes the service log files.
type LogSettings struct {
	Enabled bool   `yaml:"enabled"` // true to write per-service log files
	Path    string `yaml:"path"`    // directory for log files
}

// ServerSettings contains the HTTP session server settings.
type ServerSettings struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	SessionSecret  string `yaml:"sessionsecret"`  // cookie signing secret
	AccessPassword string `yaml:"accesspassword"` // shared secret gating mutating routes
}

// WikidataSettings contains the knowledge-base client settings.
type WikidataSettings struct {
	Endpoint         string        `yaml:"endpoint"`
	Language         string        `yaml:"language"`         // preferred label/description language
	FallbackLanguage string        `yaml:"fallbacklanguage"` // used when preferred language has no label
	SearchLimit      int           `yaml:"searchlimit"`      // max candidates returned by a search
	Timeout          time.Duration `yaml:"timeout"`          // entity detail and search requests
	LabelTimeout     time.Duration `yaml:"labeltimeout"`     // short timeout for label lookups
	RateLimitPerSec  float64       `yaml:"ratelimitpersec"`  // Wikimedia robot policy limit
}

// RegistrySettings contains the company-registry client settings.
type RegistrySettings struct {
	Endpoint string        `yaml:"endpoint"`
	PageSize int           `yaml:"pagesize"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MistralSettings contains the chat-completion client settings.
type MistralSettings struct {
	Endpoint    string        `yaml:"endpoint"`
	APIKey      string        `yaml:"apikey"` // empty disables the assistant entirely
	Model       string        `yaml:"model"`
	Temperature float64       `yaml:"temperature"` // low for near-deterministic output
	Timeout     time.Duration `yaml:"timeout"`     // completion calls are the slowest round trip
}

// ExportSettings contains defaults applied at document build time.
type ExportSettings struct {
	AreaServed string `yaml:"areaserved"`
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into the settings singleton.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create one with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes a default config.yaml to the first default config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	defaults := defaultSettings()
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", filepath.Dir(configPath)).
			Build()
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", configPath).
			Build()
	}

	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns candidate directories for the configuration file:
// the executable directory, then the user config directory, then the working directory.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	if exePath, err := os.Executable(); err == nil {
		configPaths = append(configPaths, filepath.Dir(exePath))
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(userConfigDir, "orgforge"))
	}

	configPaths = append(configPaths, ".")

	if len(configPaths) == 0 {
		return nil, errors.Newf("no usable config path").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return configPaths, nil
}

// Setting returns the current settings instance, loading it on first use.
func Setting() *Settings {
	settingsMutex.RLock()
	instance := settingsInstance
	settingsMutex.RUnlock()

	if instance == nil {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("error loading settings: %v", err))
		}
	}

	return instance
}

// GetSettings returns the current settings instance without loading.
// Returns nil before Load() has been called.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SetTestSettings installs the given settings as the singleton. Tests only.
func SetTestSettings(settings *Settings) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	settingsInstance = settings
}
