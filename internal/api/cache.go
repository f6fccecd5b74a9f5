package api

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgallion1/recipeview/internal/recipe"
	gocache "github.com/patrickmn/go-cache"
)

// viewCache holds encoded parse responses keyed by source and options.
type viewCache struct {
	cache  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

func newViewCache(ttl time.Duration) *viewCache {
	return &viewCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *viewCache) get(key string) ([]byte, bool) {
	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return v.([]byte), true
	}
	c.misses.Add(1)
	return nil, false
}

func (c *viewCache) set(key string, body []byte) {
	c.cache.SetDefault(key, body)
}

type cacheStats struct {
	Items  int   `json:"items"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

func (c *viewCache) stats() cacheStats {
	return cacheStats{
		Items:  c.cache.ItemCount(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// cacheKey hashes everything a parse response depends on.
func cacheKey(source string, opts recipe.Options, scale string) string {
	key := strings.Join([]string{
		contentHashHex([]byte(source)),
		strings.Join(opts.HiddenTags, ","),
		opts.SideColumnPattern,
		fmt.Sprint(opts.TreatFirstHeadingAsTitle, opts.ShowBulletsInSideColumn),
		scale,
	}, "\x00")
	return contentHashHex([]byte(key))
}

func contentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
