package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/relation-models/internal/model"
	"github.com/d60-Lab/relation-models/pkg/logger"
)

// 派生视图名
const (
	viewFollowers = "followers"
	viewFollowing = "following"
	viewBlocks    = "blocks"
	viewRelated   = "related"
)

// RelationCache 派生视图（粉丝/关注/拉黑列表）的读穿缓存。
// 每个 (视图, 用户) 一个 hash，field 为 offset:limit，失效时整键删除。
// 每个视图另有一个代数计数器，失效时自增；回填前代数变了就放弃回填，
// 避免把失效前读到的旧结果写回去。
// nil 的 *RelationCache 表示不缓存，所有方法可安全调用。
type RelationCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// genTTL 代数键的过期时间，需长于任何一次回源加载
const genTTL = 24 * time.Hour

var errStaleLoad = errors.New("relation cache: view invalidated during load")

// NewRelationCache client 为 nil 时返回 nil
func NewRelationCache(client *redis.Client, ttl time.Duration) *RelationCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RelationCache{client: client, ttl: ttl}
}

func viewKey(view, userID string) string {
	return fmt.Sprintf("relations:%s:%s", view, userID)
}

func genKey(key string) string {
	return key + ":gen"
}

func pageField(offset, limit int) string {
	return strconv.Itoa(offset) + ":" + strconv.Itoa(limit)
}

// Load 先读缓存，未命中则调用 load 并回填
func (c *RelationCache) Load(ctx context.Context, view, userID string, offset, limit int, load func() ([]*model.TwitterUser, error)) ([]*model.TwitterUser, error) {
	if c == nil {
		return load()
	}

	key, field := viewKey(view, userID), pageField(offset, limit)
	if data, err := c.client.HGet(ctx, key, field).Bytes(); err == nil {
		var out []*model.TwitterUser
		if uErr := json.Unmarshal(data, &out); uErr == nil {
			c.hits.Add(1)
			return out, nil
		}
	} else if err != redis.Nil {
		logger.Warn("relation cache read failed", zap.String("key", key), zap.Error(err))
	}

	// 代数必须在回源之前读取
	gen, genErr := c.client.Get(ctx, genKey(key)).Int64()
	if genErr == redis.Nil {
		gen, genErr = 0, nil
	}

	c.misses.Add(1)
	users, err := load()
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*model.TwitterUser{}
	}
	if genErr != nil {
		return users, nil
	}
	if payload, err := json.Marshal(users); err == nil {
		c.store(ctx, key, field, gen, payload)
	}
	return users, nil
}

// store 仅在代数未变时回填，WATCH 保证检查与写入之间没有失效插进来
func (c *RelationCache) store(ctx context.Context, key, field string, gen int64, payload []byte) {
	gk := genKey(key)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, payload)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil:
	case errors.Is(err, errStaleLoad), errors.Is(err, redis.TxFailedErr):
		logger.Debug("relation cache write skipped", zap.String("key", key))
	default:
		logger.Warn("relation cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateEdge 边 from->to 变化后，清理受影响的视图
func (c *RelationCache) InvalidateEdge(ctx context.Context, fromUserID, toUserID string) {
	if c == nil {
		return
	}
	c.invalidate(ctx,
		viewKey(viewFollowing, fromUserID),
		viewKey(viewBlocks, fromUserID),
		viewKey(viewRelated, fromUserID),
		viewKey(viewFollowers, toUserID),
	)
}

// InvalidateUser 清理某用户自身的全部视图
func (c *RelationCache) InvalidateUser(ctx context.Context, userIDs ...string) {
	if c == nil {
		return
	}
	keys := make([]string, 0, len(userIDs)*4)
	for _, id := range userIDs {
		for _, view := range []string{viewFollowers, viewFollowing, viewBlocks, viewRelated} {
			keys = append(keys, viewKey(view, id))
		}
	}
	c.invalidate(ctx, keys...)
}

// invalidate 在一个 MULTI 中删除视图并自增代数
func (c *RelationCache) invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Incr(ctx, genKey(key))
			pipe.Expire(ctx, genKey(key), genTTL)
		}
		return nil
	})
	if err != nil {
		logger.Warn("relation cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// CacheCounters 命中统计
type CacheCounters struct {
	Hits   int64
	Misses int64
}

func (c *RelationCache) Counters() CacheCounters {
	if c == nil {
		return CacheCounters{}
	}
	return CacheCounters{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
