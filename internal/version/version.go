package version

import (
	"runtime"
	"time"
)

// Set through -ldflags "-X github.com/MrSnakeDoc/postnav/internal/version.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)

// String renders the build info on one line, as printed by `postnav --version`.
func String() string {
	return Version + " (commit=" + Commit + ", built=" + BuildDate + ", go=" + GoVersion + ")"
}
