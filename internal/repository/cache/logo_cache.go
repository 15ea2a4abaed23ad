package cache

import (
	"context"
	"sync/atomic"
	"time"

	"jobs-admin-backend/internal/domain"
	"jobs-admin-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const logoKeyPrefix = "company:logo:"

// LogoCache keeps logos in a Redis hash per company. A nil client disables it.
type LogoCache struct {
	client *redis.Client
	ttl    time.Duration

	warnedUnavailable atomic.Bool
}

func NewLogoCache(client *redis.Client, ttl time.Duration) *LogoCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LogoCache{client: client, ttl: ttl}
}

func LogoKey(companyID uuid.UUID) string {
	return logoKeyPrefix + companyID.String()
}

func (c *LogoCache) isUnavailable() bool {
	return c == nil || c.client == nil
}

func (c *LogoCache) warnOnce(op string, err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		logger.Log.Warn("Logo cache unavailable, bypassing", "op", op, "error", err)
	}
}

func (c *LogoCache) Get(ctx context.Context, companyID uuid.UUID) (*domain.Logo, bool) {
	if c.isUnavailable() {
		return nil, false
	}
	fields, err := c.client.HGetAll(ctx, LogoKey(companyID)).Result()
	if err != nil {
		c.warnOnce("get", err)
		return nil, false
	}
	mime, bytes := fields["mime"], fields["bytes"]
	if mime == "" || bytes == "" {
		return nil, false
	}
	return &domain.Logo{Mime: mime, Bytes: []byte(bytes)}, true
}

func (c *LogoCache) Set(ctx context.Context, companyID uuid.UUID, logo *domain.Logo) {
	if c.isUnavailable() || logo == nil || len(logo.Bytes) == 0 {
		return
	}
	key := LogoKey(companyID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "mime", logo.Mime, "bytes", logo.Bytes)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		c.warnOnce("set", err)
	}
}

func (c *LogoCache) Invalidate(ctx context.Context, companyID uuid.UUID) {
	if c.isUnavailable() {
		return
	}
	if err := c.client.Del(ctx, LogoKey(companyID)).Err(); err != nil {
		c.warnOnce("invalidate", err)
	}
}
