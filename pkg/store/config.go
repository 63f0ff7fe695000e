package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Backends understood by Load.
const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config carries the settings needed to open a store and run the engine.
type Config interface {
	BasePath() string
	Backend() string
	UndoWindow() time.Duration
	HydrateTimeout() time.Duration
	Seed() bool
	LogLevel() string
	LogFormat() string
}

// LoadConfig reads .ondeck.yaml from $ONDECK_CONFIG_PATH, the working
// directory or $HOME, with ONDECK_* environment overrides. A missing file is
// fine; an unreadable one is not.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.ondeck.db")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("undo_window", "6s")
	v.SetDefault("hydrate_timeout", "5s")
	v.SetDefault("seed", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetConfigName(".ondeck") // .yaml is implicit
	v.SetEnvPrefix("ONDECK")
	v.AutomaticEnv()

	if override := os.Getenv("ONDECK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &fileConfig{
		Path:        path,
		StoreKind:   v.GetString("backend"),
		Undo:        v.GetDuration("undo_window"),
		Hydrate:     v.GetDuration("hydrate_timeout"),
		SeedOnEmpty: v.GetBool("seed"),
		Level:       v.GetString("log_level"),
		Format:      v.GetString("log_format"),
	}, nil
}

type fileConfig struct {
	Path        string        `json:"path"`
	StoreKind   string        `json:"backend"`
	Undo        time.Duration `json:"undoWindow"`
	Hydrate     time.Duration `json:"hydrateTimeout"`
	SeedOnEmpty bool          `json:"seed"`
	Level       string        `json:"logLevel"`
	Format      string        `json:"logFormat"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	return f.StoreKind
}

func (f *fileConfig) UndoWindow() time.Duration {
	return f.Undo
}

func (f *fileConfig) HydrateTimeout() time.Duration {
	return f.Hydrate
}

func (f *fileConfig) Seed() bool {
	return f.SeedOnEmpty
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}

func (f *fileConfig) LogFormat() string {
	return f.Format
}
