package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/goatminify/goatminify/internal/models"
	"github.com/goatminify/goatminify/internal/telemetry"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache memoizes successful pipeline results by request content.
// It is safe for concurrent use.
type ResultCache struct {
	entries *lru.Cache[string, models.PipelineResult]
}

// NewResultCache creates a cache holding up to size results.
func NewResultCache(size int) (*ResultCache, error) {
	entries, err := lru.New[string, models.PipelineResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &ResultCache{entries: entries}, nil
}

// Get returns the cached result for req.
func (c *ResultCache) Get(req Request) (models.PipelineResult, bool) {
	res, ok := c.entries.Get(cacheKey(req))
	if ok {
		telemetry.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		telemetry.CacheLookups.WithLabelValues("miss").Inc()
	}
	return res, ok
}

// Add stores res for req. Fallback and recovered results are never stored
// so a transient engine failure is retried on the next run.
func (c *ResultCache) Add(req Request, res models.PipelineResult) bool {
	if res.UsedFallback || res.Recovered {
		return false
	}
	res.Seq = 0
	res.Notices = nil
	c.entries.Add(cacheKey(req), res)
	return true
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached result.
func (c *ResultCache) Purge() {
	c.entries.Purge()
}

func cacheKey(req Request) string {
	h := sha256.New()
	var lvl [8]byte
	binary.BigEndian.PutUint64(lvl[:], uint64(models.NormalizeLevel(int(req.Level))))
	h.Write(lvl[:])
	override := req.Override
	if override.IsAuto() {
		override = models.OverrideAuto
	}
	for _, s := range []string{string(override), req.Filename, req.Input} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}
