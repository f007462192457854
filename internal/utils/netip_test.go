package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "ipv6 remote", remote: "[::1]:8080", want: "::1"},
		{
			name:    "proxy headers ignored when untrusted",
			remote:  "10.0.0.1:1234",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4"},
			want:    "10.0.0.1",
		},
		{
			name:       "first forwarded for",
			remote:     "127.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"},
			trustProxy: true,
			want:       "1.2.3.4",
		},
		{
			name:   "cloudflare header wins",
			remote: "127.0.0.1:1234",
			headers: map[string]string{
				"CF-Connecting-IP": "9.9.9.9",
				"X-Forwarded-For":  "1.2.3.4",
			},
			trustProxy: true,
			want:       "9.9.9.9",
		},
		{
			name:       "real ip fallback",
			remote:     "127.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "8.8.8.8"},
			trustProxy: true,
			want:       "8.8.8.8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"192.168.1.10", "10.0.0.0/8", " ", "not-an-ip", "fd00::/8"})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.10", true},
		{"::ffff:192.168.1.10", true},
		{"192.168.1.11", false},
		{"10.20.30.40", true},
		{"fd12::1", true},
		{"2001:db8::1", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}
