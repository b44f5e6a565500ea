package config

const (
	defaultCachePath       = "~/.cache/aria/namecache.json"
	defaultCacheMaxEntries = 5000
	defaultPlayerEager     = true
	defaultPlayerMaxVolume = 1.0
	defaultSimulatorDBPath = "~/.local/share/aria/catalog.db"
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
)

var defaultSimulatorDevices = []string{"Living Room", "Bedroom", "Kitchen Speaker"}

// Default returns a configuration populated with every default value.
func Default() *Config {
	return &Config{
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Cache: Cache{
			Path:       defaultCachePath,
			MaxEntries: defaultCacheMaxEntries,
		},
		Player: Player{
			Eager:     defaultPlayerEager,
			MaxVolume: defaultPlayerMaxVolume,
		},
		Simulator: Simulator{
			DatabasePath: defaultSimulatorDBPath,
			Devices:      append([]string(nil), defaultSimulatorDevices...),
		},
	}
}
