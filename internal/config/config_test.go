package config

import (
	"testing"
	"time"

	"github.com/MrSnakeDoc/postnav/internal/postnav"
)

func expectPanic(t *testing.T, name string) {
	t.Helper()
	if r := recover(); r == nil {
		t.Errorf("%s should have panicked", name)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.PostsFile != "" || cfg.PostsRoot != "." {
		t.Errorf("unexpected posts source: file=%q root=%q", cfg.PostsFile, cfg.PostsRoot)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.ClickPolicy != postnav.LatestClick {
		t.Errorf("ClickPolicy = %v, want latest", cfg.ClickPolicy)
	}
	if !cfg.Sanitize || cfg.InlineErrors {
		t.Errorf("Sanitize = %v, InlineErrors = %v", cfg.Sanitize, cfg.InlineErrors)
	}
	if cfg.RedisEnabled() {
		t.Error("redis should be disabled without POSTNAV_REDIS_ADDR")
	}
	if cfg.PageTTL != 30*time.Minute {
		t.Errorf("PageTTL = %v, want 30m", cfg.PageTTL)
	}
	if cfg.RateBurst != 30 || cfg.ClickRateBurst != 60 || cfg.ClickRatePerMin != 300 {
		t.Errorf("rate limits = page %d, click %d/%d", cfg.RateBurst, cfg.ClickRateBurst, cfg.ClickRatePerMin)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POSTNAV_POSTS_FILE", "/srv/posts.yaml")
	t.Setenv("POSTNAV_CLICK_POLICY", "settled")
	t.Setenv("POSTNAV_REDIS_ADDR", "localhost:6379")
	t.Setenv("POSTNAV_REDIS_DB", "2")
	t.Setenv("POSTNAV_ALLOWED_HOSTS", ` blog.example.com , "www.example.com" `)
	t.Setenv("POSTNAV_FETCH_TIMEOUT", "0s")

	cfg := Load()

	if cfg.PostsFile != "/srv/posts.yaml" {
		t.Errorf("PostsFile = %q", cfg.PostsFile)
	}
	if cfg.ClickPolicy != postnav.LastSettled {
		t.Errorf("ClickPolicy = %v, want settled", cfg.ClickPolicy)
	}
	if !cfg.RedisEnabled() || cfg.RedisDB != 2 {
		t.Errorf("redis config = %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "www.example.com" {
		t.Errorf("AllowedHosts = %v", cfg.AllowedHosts)
	}
	if cfg.FetchTimeout != 0 {
		t.Errorf("FetchTimeout = %v, want 0", cfg.FetchTimeout)
	}
}

func TestLoadRequiresRedisPassword(t *testing.T) {
	t.Setenv("POSTNAV_REDIS_ADDR", "localhost:6379")
	t.Setenv("POSTNAV_REDIS_PASSWORD_REQUIRED", "true")

	defer expectPanic(t, "Load()")
	Load()
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		def       int
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", value: "42", def: 1, expected: 42},
		{name: "missing variable uses default", value: "", def: 7, expected: 7},
		{name: "invalid integer", value: "not_a_number", def: 1, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			if tt.wantPanic {
				defer expectPanic(t, "getenvInt()")
			}

			result := getenvInt("TEST_INT", tt.def)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		def       time.Duration
		expected  time.Duration
		wantPanic bool
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
		{name: "invalid duration", value: "invalid", def: time.Second, wantPanic: true},
		{name: "negative duration", value: "-1s", def: time.Second, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if tt.wantPanic {
				defer expectPanic(t, "mustDuration()")
			}

			result := mustDuration("TEST_DURATION", tt.def)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		def       bool
		expected  bool
		wantPanic bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "missing variable uses default", value: "", def: true, expected: true},
		{name: "invalid value", value: "invalid", def: true, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if tt.wantPanic {
				defer expectPanic(t, "mustBool()")
			}

			result := mustBool("TEST_BOOL", tt.def)
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustPolicy(t *testing.T) {
	t.Setenv("TEST_POLICY", "settled")
	if got := mustPolicy("TEST_POLICY", postnav.LatestClick); got != postnav.LastSettled {
		t.Errorf("mustPolicy() = %v, want settled", got)
	}

	t.Setenv("TEST_POLICY", "first-wins")
	defer expectPanic(t, "mustPolicy()")
	mustPolicy("TEST_POLICY", postnav.LatestClick)
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "a.example.com", want: []string{"a.example.com"}},
		{name: "spaces and quotes", input: ` a , "b" ,, 'c' `, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
