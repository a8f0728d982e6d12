package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tgdesk/supportbot/internal/domain"
)

const (
	quickReplyKeyPrefix = "quickreply:"
	quickReplyCacheTTL  = 10 * time.Minute
)

// cachedQuickReplyRepository is a read-through Redis cache over quick-reply
// lookups. The cache is best-effort: any Redis failure falls back to the
// inner repository.
type cachedQuickReplyRepository struct {
	inner  QuickReplyRepository
	client *redis.Client
	logger *zap.Logger
}

// NewCachedQuickReplyRepository wraps inner with a Redis cache for Get.
func NewCachedQuickReplyRepository(inner QuickReplyRepository, client *redis.Client, logger *zap.Logger) QuickReplyRepository {
	return &cachedQuickReplyRepository{inner: inner, client: client, logger: logger}
}

func (r *cachedQuickReplyRepository) List(ctx context.Context) ([]domain.QuickReply, error) {
	return r.inner.List(ctx)
}

func (r *cachedQuickReplyRepository) Get(ctx context.Context, shortcut string) (*domain.QuickReply, error) {
	key := quickReplyKeyPrefix + shortcut

	cached, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var reply domain.QuickReply
		if err := json.Unmarshal([]byte(cached), &reply); err == nil {
			return &reply, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Debug("quick reply cache read failed", zap.Error(err))
	}

	reply, err := r.inner.Get(ctx, shortcut)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(reply); err == nil {
		if err := r.client.Set(ctx, key, payload, quickReplyCacheTTL).Err(); err != nil {
			r.logger.Debug("quick reply cache write failed", zap.Error(err))
		}
	}
	return reply, nil
}

func (r *cachedQuickReplyRepository) Upsert(ctx context.Context, shortcut, text string) (*domain.QuickReply, error) {
	reply, err := r.inner.Upsert(ctx, shortcut, text)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, shortcut)
	return reply, nil
}

func (r *cachedQuickReplyRepository) Delete(ctx context.Context, shortcut string) (bool, error) {
	deleted, err := r.inner.Delete(ctx, shortcut)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, shortcut)
	return deleted, nil
}

func (r *cachedQuickReplyRepository) invalidate(ctx context.Context, shortcut string) {
	if err := r.client.Del(ctx, quickReplyKeyPrefix+shortcut).Err(); err != nil {
		r.logger.Debug("quick reply cache invalidation failed", zap.Error(err))
	}
}
