package fixtura

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"fixtura.dev/pkg/fixtura/internal/adapter"
)

// Settings keys, shared with the fixtura.yaml file and FIXTURA_ env variables.
const (
	UniqueStringPrefixKey       = "unique.string_prefix"
	TypeDescriptionCacheSizeKey = "cache.type_descriptions"
	ConfigurationFilesKey       = "configuration.files"

	envPrefix = "FIXTURA"
)

// Settings tune a Fixture.
type Settings struct {
	// UniqueStringPrefix is prepended to generated unique strings.
	UniqueStringPrefix string
	// TypeDescriptionCacheSize bounds the number of cached type descriptions.
	TypeDescriptionCacheSize int
	// ConfigurationFiles are loaded when the Fixture is created.
	ConfigurationFiles []string
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		TypeDescriptionCacheSize: adapter.DefaultTypeDescriptionCacheSize,
	}
}

// SetDefaults registers the default settings on v.
func SetDefaults(v *viper.Viper) {
	defaults := DefaultSettings()

	v.SetDefault(UniqueStringPrefixKey, defaults.UniqueStringPrefix)
	v.SetDefault(TypeDescriptionCacheSizeKey, defaults.TypeDescriptionCacheSize)
	v.SetDefault(ConfigurationFilesKey, []string{})
}

// LoadSettings reads settings from the YAML file at path, overridden by
// FIXTURA_ environment variables. An empty path reads the environment and
// defaults only.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				slog.Error("Failed to read settings", "path", path, "error", err)
				return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
			}
		}
	}

	return SettingsFrom(v)
}

// SettingsFrom extracts settings from a configured viper instance.
func SettingsFrom(v *viper.Viper) (Settings, error) {
	settings := Settings{
		UniqueStringPrefix:       v.GetString(UniqueStringPrefixKey),
		TypeDescriptionCacheSize: v.GetInt(TypeDescriptionCacheSizeKey),
		ConfigurationFiles:       v.GetStringSlice(ConfigurationFilesKey),
	}

	if settings.TypeDescriptionCacheSize <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %d", TypeDescriptionCacheSizeKey, settings.TypeDescriptionCacheSize)
	}

	return settings, nil
}
