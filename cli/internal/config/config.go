package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/chfilter/internal/debug"
)

var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	HideTableNameInAdhocFilters bool
	TableQuery                  string
	FiltersPath                 string
	ServerVersion               string
	Debug                       bool
}

// LoadConfig loads configuration from the config file, .env files and
// CHFILTER_* environment variables.
func LoadConfig() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(".chfilter")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "chfilter"))

	// .env.local takes precedence over .env
	if err := loadDotenv(AppFs, ".env", false); err != nil {
		debug.Warn("ignoring env file", "file", ".env", "error", err)
	}
	if err := loadDotenv(AppFs, ".env.local", true); err != nil {
		debug.Warn("ignoring env file", "file", ".env.local", "error", err)
	}

	return load(v)
}

// loadDotenv exports the variables of an env file read from fs. Variables
// already in the environment are kept unless override is set. A missing file
// is not an error.
func loadDotenv(fs afero.Fs, name string, override bool) error {
	f, err := fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	for key, value := range vars {
		if _, ok := os.LookupEnv(key); ok && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("CHFILTER")
	v.AutomaticEnv()

	v.SetDefault("hide_table_name_in_adhoc_filters", false)
	v.SetDefault("table_query", "")
	v.SetDefault("filters_path", "")
	v.SetDefault("server_version", "")
	v.SetDefault("debug", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		HideTableNameInAdhocFilters: v.GetBool("hide_table_name_in_adhoc_filters"),
		TableQuery:                  v.GetString("table_query"),
		FiltersPath:                 v.GetString("filters_path"),
		ServerVersion:               v.GetString("server_version"),
		Debug:                       v.GetBool("debug"),
	}, nil
}
