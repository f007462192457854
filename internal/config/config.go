package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/postnav"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	PostsFile      string         // YAML post list (empty = built-in list)
	PostsRoot      string         // directory the post files are read from
	FetchBaseURL   string         // fetch posts over HTTP from this base instead of PostsRoot
	FetchTimeout   time.Duration  // per retrieval (0 = none)
	ClickPolicy    postnav.Policy // latest | settled
	InlineErrors   bool           // write a visible error into the content pane on failure
	Sanitize       bool           // run converted HTML through bluemonday
	HighlightStyle string         // chroma style name for code blocks

	ReloadInterval time.Duration // interval to reload the posts file
	Watch          bool          // reload when the posts file changes on disk
	GCInterval     time.Duration // interval to run garbage collection
	PageTTL        time.Duration // idle time before a page session is dropped
	RenderCacheTTL time.Duration // TTL of cached renders in redis

	// Redis (empty RedisAddr = disabled)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateBurst    int      // per-IP burst on page loads
	RatePerMin   int      // per-IP sustained rate on page loads

	ClickRateBurst  int // per-IP burst on post clicks
	ClickRatePerMin int // per-IP sustained rate on post clicks
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("POSTNAV_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("POSTNAV_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("POSTNAV_LOG_LEVEL", "info"),
		PrettyLog: mustBool("POSTNAV_PRETTY_LOG", true),

		// Posts
		PostsFile:      getenv("POSTNAV_POSTS_FILE", ""),
		PostsRoot:      getenv("POSTNAV_POSTS_ROOT", "."),
		FetchBaseURL:   getenv("POSTNAV_FETCH_BASE_URL", ""),
		FetchTimeout:   mustDuration("POSTNAV_FETCH_TIMEOUT", 10*time.Second),
		ClickPolicy:    mustPolicy("POSTNAV_CLICK_POLICY", postnav.LatestClick),
		InlineErrors:   mustBool("POSTNAV_INLINE_ERRORS", false),
		Sanitize:       mustBool("POSTNAV_SANITIZE", true),
		HighlightStyle: getenv("POSTNAV_HIGHLIGHT_STYLE", "github"),

		// Background jobs
		ReloadInterval: mustDuration("POSTNAV_RELOAD_INTERVAL", time.Hour),
		Watch:          mustBool("POSTNAV_WATCH", true),
		GCInterval:     mustDuration("POSTNAV_GC_INTERVAL", 10*time.Minute),
		PageTTL:        mustDuration("POSTNAV_PAGE_TTL", 30*time.Minute),
		RenderCacheTTL: mustDuration("POSTNAV_RENDER_CACHE_TTL", 24*time.Hour),

		// Redis settings
		RedisAddr:             getenv("POSTNAV_REDIS_ADDR", ""),
		RedisUser:             getenv("POSTNAV_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("POSTNAV_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("POSTNAV_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("POSTNAV_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("POSTNAV_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("POSTNAV_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("POSTNAV_TRUST_PROXY", false),
		RateBurst:    getenvInt("POSTNAV_RATE_BURST", 30),
		RatePerMin:   getenvInt("POSTNAV_RATE_PER_MIN", 120),

		ClickRateBurst:  getenvInt("POSTNAV_CLICK_RATE_BURST", 60),
		ClickRatePerMin: getenvInt("POSTNAV_CLICK_RATE_PER_MIN", 300),
	}

	// Validate Redis password configuration
	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: POSTNAV_REDIS_PASSWORD is required when POSTNAV_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether a redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
		}
		return i
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Sprintf("❌ FATAL: Invalid boolean value for %s: %s", key, v))
		}
		return b
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			panic(fmt.Sprintf("❌ FATAL: Invalid duration value for %s: %s", key, v))
		}
		return d
	}
	return def
}

func mustPolicy(key string, def postnav.Policy) postnav.Policy {
	if v := os.Getenv(key); v != "" {
		p, err := postnav.ParsePolicy(v)
		if err != nil {
			panic(fmt.Sprintf("❌ FATAL: %s: %v", key, err))
		}
		return p
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
