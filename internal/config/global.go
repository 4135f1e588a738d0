package config

import (
	"sync"
)

var (
	// GlobalConfig is the configuration for the current invocation.
	GlobalConfig     *Config      //nolint:gochecknoglobals // Singleton pattern for configuration
	globalConfigMu   sync.RWMutex //nolint:gochecknoglobals // Protects GlobalConfig
	globalConfigInit bool         //nolint:gochecknoglobals // Tracks if global config has been initialized
)

// InitGlobalConfig loads the global configuration once.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}

	GlobalConfig = New()
	globalConfigInit = true
}

// SetGlobalConfig replaces the global configuration, typically with one the
// CLI loaded from --config and the project overlay.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = cfg
	globalConfigInit = cfg != nil
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetWindowConfig returns the configured default window parameters.
func GetWindowConfig() WindowConfig {
	return GetGlobalConfig().Window
}

// GetCacheConfig returns the configured row cache settings.
func GetCacheConfig() CacheConfig {
	return GetGlobalConfig().Cache
}

// GetRosterConfig returns the configured roster source.
func GetRosterConfig() RosterConfig {
	return GetGlobalConfig().Roster
}
