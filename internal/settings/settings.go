package settings

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Settings are the demo application's preferences, read from an
// optional YAML file next to the executable.
type Settings struct {
	Window struct {
		Width  int `mapstructure:"width"`
		Height int `mapstructure:"height"`
	} `mapstructure:"window"`

	Data struct {
		SchemaPath string `mapstructure:"schema_path"`
		XMLPath    string `mapstructure:"xml_path"`
		PostgresDSN string `mapstructure:"postgres_dsn"`
	} `mapstructure:"data"`
}

// Defaults returns the settings used when no file is present.
func Defaults() *Settings {
	s := &Settings{}
	s.Window.Width = 640
	s.Window.Height = 420
	s.Data.XMLPath = "contacts.xml"
	return s
}

// Load reads the settings file at path, falling back to Defaults when
// the file does not exist.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Defaults(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return cfg, nil
}
