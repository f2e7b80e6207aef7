package version

// Set at build time via -ldflags "-X github.com/battlewithbytes/homemenu/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
