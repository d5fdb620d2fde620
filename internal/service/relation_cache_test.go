package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/relation-models/internal/model"
)

func TestNilCachePassesThrough(t *testing.T) {
	var c *RelationCache
	calls := 0
	users, err := c.Load(context.Background(), viewFollowers, "u1", 0, 10, func() ([]*model.TwitterUser, error) {
		calls++
		return []*model.TwitterUser{{ID: "u2"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, calls)

	c.InvalidateEdge(context.Background(), "u1", "u2")
	c.InvalidateUser(context.Background(), "u1")
	assert.Equal(t, CacheCounters{}, c.Counters())
	assert.Nil(t, NewRelationCache(nil, time.Minute))
}

func TestCacheLoadAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRelationCache(client, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() ([]*model.TwitterUser, error) {
		calls++
		return []*model.TwitterUser{{ID: "u2", Name: "bob"}}, nil
	}

	_, err := c.Load(ctx, viewFollowers, "u1", 0, 10, load)
	require.NoError(t, err)
	got, err := c.Load(ctx, viewFollowers, "u1", 0, 10, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "bob", got[0].Name)

	// 不同分页是不同 field
	_, err = c.Load(ctx, viewFollowers, "u1", 10, 10, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	assert.True(t, mr.Exists("relations:followers:u1"))
	ttl := mr.TTL("relations:followers:u1")
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	// u0 -> u1 的边变化影响 u1 的粉丝
	c.InvalidateEdge(ctx, "u0", "u1")
	assert.False(t, mr.Exists("relations:followers:u1"))
}

func TestCacheFallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	c := NewRelationCache(client, time.Minute)
	mr.Close()

	users, err := c.Load(context.Background(), viewFollowing, "u1", 0, 10, func() ([]*model.TwitterUser, error) {
		return []*model.TwitterUser{{ID: "u3"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(1), c.Counters().Misses)
}

func TestCacheSkipsWriteBackAfterConcurrentInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRelationCache(client, time.Minute)
	ctx := context.Background()

	// 回源期间有写入提交并失效，读到的是写入前的结果
	got, err := c.Load(ctx, viewFollowers, "bob", 0, 10, func() ([]*model.TwitterUser, error) {
		c.InvalidateEdge(ctx, "alice", "bob")
		return []*model.TwitterUser{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, mr.Exists("relations:followers:bob"))

	calls := 0
	got, err = c.Load(ctx, viewFollowers, "bob", 0, 10, func() ([]*model.TwitterUser, error) {
		calls++
		return []*model.TwitterUser{{ID: "alice", Name: "alice"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, got, 1)

	// 代数未变时正常回填
	got, err = c.Load(ctx, viewFollowers, "bob", 0, 10, func() ([]*model.TwitterUser, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, got, 1)
}

func TestInvalidateBumpsGeneration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := NewRelationCache(client, time.Minute)
	ctx := context.Background()

	c.InvalidateUser(ctx, "u1")
	c.InvalidateEdge(ctx, "u0", "u1")

	gen, err := mr.Get("relations:followers:u1:gen")
	require.NoError(t, err)
	assert.Equal(t, "2", gen)
	gen, err = mr.Get("relations:following:u1:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
	assert.True(t, mr.TTL("relations:followers:u1:gen") > 0)
}
