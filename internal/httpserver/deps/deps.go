package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/postnav/internal/index"
	"github.com/MrSnakeDoc/postnav/internal/logger"
	"github.com/MrSnakeDoc/postnav/internal/postnav"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time   // for testing, defaults to time.Now
	AllowedHosts    []string           // Host headers allowed to access the server
	AllowedCIDRS    []string           // IPs allowed to access reload and infra endpoints
	TrustProxy      bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst       int                // per-IP burst on page routes (0 = unlimited)
	RatePerMin      int                // per-IP sustained rate on page routes
	ClickRateBurst  int                // per-IP burst on the click route (0 = unlimited)
	ClickRatePerMin int                // per-IP sustained rate on the click route
	Title           string             // <title> of the page shell
	HighlightCSS    string             // stylesheet for highlighted code blocks
	PostsFile       string             // Path to the post list file ("" = built-in list)
	PostsRoot       string             // Directory served under /posts/ ("" = not served)
	RedisClient     *redis.Client      // Redis client connection (nil = disabled)
	MemoryIndex     *index.MemoryIndex // Post list and live page sessions
	Fetcher         postnav.Fetcher    // Retrieval of post sources
	Converter       postnav.Converter  // Markdown to HTML
	LoaderOptions   []postnav.Option   // Applied to every page loader
	ReloadTrigger   chan struct{}      // Channel to trigger a manual post list reload
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
