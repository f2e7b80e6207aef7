package config

const (
	// Filesystem paths
	DefaultConfigPath = "/etc/homemenu/config.yml"
	DefaultDataDir    = "/var/lib/homemenu"
	DefaultMenuRoot   = DefaultDataDir + "/menu"
	DefaultLegacyRoot = DefaultDataDir + "/entries"
	DefaultCacheDir   = DefaultDataDir + "/cache"
	DefaultRegistryDB = DefaultDataDir + "/registry.db"

	// Homebrew shortcuts added to a fresh catalog
	DefaultHomebrewMenuPath = "/hbmenu.nro"
	DefaultManagerPath      = "/switch/homemenu/manager.nro"

	// Log levels
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	// Log formats
	LogFormatText = "text"
	LogFormatJSON = "json"
)
