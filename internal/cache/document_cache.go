// Package cache provides a short-TTL Redis cache for rendered documents, so
// repeated previews of an unchanged proposal skip the generation pipeline.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"proposal-service/internal/common/database"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/common/metrics"
	"proposal-service/internal/proposal/document"
)

// DocumentCache caches rendered HTML keyed by proposal id plus an options
// fingerprint. Entries are advisory: every miss or Redis failure simply means
// the caller regenerates, so cache problems never fail a request.
type DocumentCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

type cachedDocument struct {
	HTML     string `json:"html"`
	Filename string `json:"filename"`
}

const defaultTTL = 5 * time.Minute

func NewDocumentCache(client *database.RedisClient, ttl time.Duration, log logger.Logger) *DocumentCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &DocumentCache{redis: client, ttl: ttl, logger: log}
}

// Key derives the cache key for one proposal and one options combination.
// Different themes, QR flags, or watermarks produce different documents, so
// the options are hashed into the key.
func Key(proposalID string, opts document.GenerationOptions) string {
	payload, _ := json.Marshal(opts)
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("proposal:document:%s:%s", proposalID, hex.EncodeToString(sum[:8]))
}

// Get returns the cached document, or ok=false on miss or Redis failure.
func (c *DocumentCache) Get(ctx context.Context, proposalID string, opts document.GenerationOptions) (html, filename string, ok bool) {
	raw, err := c.redis.Get(ctx, Key(proposalID, opts))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.DocumentCacheHits.WithLabelValues("error").Inc()
			c.logger.Warn("Document cache read failed", map[string]interface{}{
				"proposal_id": proposalID,
				"error":       err.Error(),
			})
			return "", "", false
		}
		metrics.DocumentCacheHits.WithLabelValues("miss").Inc()
		return "", "", false
	}

	var doc cachedDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		metrics.DocumentCacheHits.WithLabelValues("error").Inc()
		return "", "", false
	}
	metrics.DocumentCacheHits.WithLabelValues("hit").Inc()
	return doc.HTML, doc.Filename, true
}

// Put stores a rendered document. Failures are logged and swallowed.
func (c *DocumentCache) Put(ctx context.Context, proposalID string, opts document.GenerationOptions, html, filename string) {
	payload, err := json.Marshal(cachedDocument{HTML: html, Filename: filename})
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, Key(proposalID, opts), string(payload), c.ttl); err != nil {
		c.logger.Warn("Document cache write failed", map[string]interface{}{
			"proposal_id": proposalID,
			"error":       err.Error(),
		})
	}
}

// Invalidate drops every variant cached for a proposal's current options set.
// Called after the proposal changes upstream.
func (c *DocumentCache) Invalidate(ctx context.Context, proposalID string) {
	pattern := fmt.Sprintf("proposal:document:%s:*", proposalID)
	iter := c.redis.Client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Document cache scan failed", map[string]interface{}{
			"proposal_id": proposalID,
			"error":       err.Error(),
		})
		return
	}
	if len(keys) > 0 {
		if err := c.redis.Del(ctx, keys...); err != nil {
			c.logger.Warn("Document cache invalidation failed", map[string]interface{}{
				"proposal_id": proposalID,
				"error":       err.Error(),
			})
		}
	}
}
