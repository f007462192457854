package render

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/MrSnakeDoc/postnav/internal/logger"
)

// Cache stores rendered HTML by key. A miss is ("", nil).
type Cache interface {
	GetRendered(ctx context.Context, key string) (string, error)
	SaveRendered(ctx context.Context, key, html string, ttl time.Duration) error
}

// Converter is the conversion capability wrapped by Cached.
type Converter interface {
	Convert(ctx context.Context, src []byte) (string, error)
}

// Fingerprinter is implemented by converters whose output depends on their
// settings. The fingerprint is folded into every cache key.
type Fingerprinter interface {
	Fingerprint() string
}

// Cached memoizes a Converter in a Cache. Cache failures are logged and never
// fail a conversion.
type Cached struct {
	next        Converter
	cache       Cache
	ttl         time.Duration
	fingerprint string
	log         logger.Logger
}

// NewCached wraps next. A nil cache disables caching.
func NewCached(next Converter, cache Cache, ttl time.Duration, log logger.Logger) *Cached {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Cached{next: next, cache: cache, ttl: ttl, log: log}
	if f, ok := next.(Fingerprinter); ok {
		c.fingerprint = f.Fingerprint()
	}
	return c
}

// Hash is the content hash of a source document.
func Hash(src []byte) string {
	return strconv.FormatUint(xxhash.Sum64(src), 16)
}

// Key is the cache key of src rendered under fingerprint. An empty
// fingerprint keys by content alone.
func Key(fingerprint string, src []byte) string {
	if fingerprint == "" {
		return Hash(src)
	}
	d := xxhash.New()
	_, _ = d.WriteString(fingerprint)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(src)
	return strconv.FormatUint(d.Sum64(), 16)
}

// Key is the cache key this converter uses for src.
func (c *Cached) Key(src []byte) string {
	return Key(c.fingerprint, src)
}

func (c *Cached) Convert(ctx context.Context, src []byte) (string, error) {
	if c.cache == nil {
		return c.next.Convert(ctx, src)
	}

	key := c.Key(src)
	if html, err := c.cache.GetRendered(ctx, key); err != nil {
		c.log.Warn("render cache lookup failed", logger.String("key", key), logger.Error(err))
	} else if html != "" {
		c.log.Debug("render cache hit", logger.String("key", key))
		return html, nil
	}

	html, err := c.next.Convert(ctx, src)
	if err != nil {
		return "", err
	}

	if err := c.cache.SaveRendered(ctx, key, html, c.ttl); err != nil {
		c.log.Warn("failed to save rendered post", logger.String("key", key), logger.Error(err))
	}
	return html, nil
}
