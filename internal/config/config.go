// Package config holds the player settings and the viper setup that loads them.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	Name      = "syncplayer"
	EnvPrefix = "SYNCPLAYER"
)

const (
	RenderMode         = "render.mode"
	SeekBarHeight      = "seekbar.height"
	SeekBarPadding     = "seekbar.padding"
	SeekBarBorder      = "seekbar.border"
	SeekBarVisible     = "seekbar.visible"
	DecoderBuffer      = "decoder.buffer"
	DecoderStepTimeout = "decoder.step_timeout"
	WindowTitle        = "window.title"
	LogLevel           = "log.level"
	LogJSON            = "log.json"
)

const (
	RenderOverlay = "overlay"
	RenderConvert = "convert"
)

var Default = map[string]any{
	RenderMode:         RenderOverlay,
	SeekBarHeight:      12,
	SeekBarPadding:     8,
	SeekBarBorder:      1,
	SeekBarVisible:     2 * time.Second,
	DecoderBuffer:      20,
	DecoderStepTimeout: 100 * time.Millisecond,
	WindowTitle:        "SyncPlayer",
	LogLevel:           "info",
	LogJSON:            false,
}

var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment overrides and the optional config file
// found in dir. A missing file is not an error.
func Setup(fs afero.Fs, dir string) error {
	viper.SetConfigName(Name)
	viper.SetConfigType("toml")
	viper.SetFs(fs)
	if dir != "" {
		viper.AddConfigPath(dir)
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()

	viper.SetTypeByDefaultValue(true)
	for name, value := range Default {
		viper.SetDefault(name, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// Dir returns the directory the config file is looked up in.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, Name)
}

// Settings is the typed snapshot of the configuration read at startup.
type Settings struct {
	Overlay        bool
	SeekBarHeight  int
	SeekBarPadding int
	SeekBarBorder  int
	SeekBarVisible time.Duration
	DecoderBuffer  int
	StepTimeout    time.Duration
	WindowTitle    string
}

func Load() Settings {
	return Settings{
		Overlay:        viper.GetString(RenderMode) != RenderConvert,
		SeekBarHeight:  viper.GetInt(SeekBarHeight),
		SeekBarPadding: viper.GetInt(SeekBarPadding),
		SeekBarBorder:  viper.GetInt(SeekBarBorder),
		SeekBarVisible: viper.GetDuration(SeekBarVisible),
		DecoderBuffer:  viper.GetInt(DecoderBuffer),
		StepTimeout:    viper.GetDuration(DecoderStepTimeout),
		WindowTitle:    viper.GetString(WindowTitle),
	}
}
