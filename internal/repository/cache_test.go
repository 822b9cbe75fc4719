package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkrelay/internal/config"
	"linkrelay/internal/model"
)

func newTestLinkCache(t *testing.T) (*LinkCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})

	return NewLinkCacheWithClient(client, time.Minute), s
}

func TestNewLinkCache(t *testing.T) {
	s := miniredis.RunT(t)

	cache := NewLinkCache(&config.RedisConfig{Addr: s.Addr()}, 0)

	assert.NotNil(t, cache)
	assert.NotNil(t, cache.client)
	assert.Equal(t, DefaultLinkTTL, cache.ttl)

	cache.Close()
}

func TestLinkCache_SetAndGet(t *testing.T) {
	cache, s := newTestLinkCache(t)
	defer cache.Close()

	ctx := context.Background()
	link := &model.Link{
		ID:                  3,
		ShortCode:           "secret",
		DestinationURL:      "https://example.com/private",
		IsActive:            true,
		PasswordHash:        "$2a$10$abcdefghijklmnopqrstuv",
		GeoTargetingEnabled: true,
		GeoRules:            []model.GeoRule{{Region: "EU", URL: "https://eu.example.com"}},
	}

	require.NoError(t, cache.SetLink(ctx, link))

	assert.True(t, s.Exists(LinkKeyPrefix+"secret"))
	assert.Equal(t, time.Minute, s.TTL(LinkKeyPrefix+"secret"))
	// the digest is stored beside the link, not inside its JSON form
	raw, err := s.Get(LinkKeyPrefix + "secret")
	require.NoError(t, err)
	assert.Contains(t, raw, `"password_hash"`)

	got, err := cache.GetLink(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, link.ID, got.ID)
	assert.Equal(t, link.DestinationURL, got.DestinationURL)
	assert.Equal(t, link.PasswordHash, got.PasswordHash)
	assert.True(t, got.PasswordProtected())
	assert.Equal(t, link.GeoRules, got.GeoRules)
	assert.Equal(t, model.AllowAllDevices(), got.DeviceRules)
}

func TestLinkCache_GetLink(t *testing.T) {
	cache, s := newTestLinkCache(t)
	defer cache.Close()

	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		link, err := cache.GetLink(ctx, "absent")
		assert.ErrorIs(t, err, ErrCacheMiss)
		assert.Nil(t, link)
	})

	t.Run("corrupt entry is a miss", func(t *testing.T) {
		s.Set(LinkKeyPrefix+"broken", "{not json")

		link, err := cache.GetLink(ctx, "broken")
		assert.ErrorIs(t, err, ErrCacheMiss)
		assert.Nil(t, link)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		require.NoError(t, cache.SetLink(ctx, &model.Link{ShortCode: "brief", DestinationURL: "https://example.com"}))
		s.FastForward(2 * time.Minute)

		_, err := cache.GetLink(ctx, "brief")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("server failure is not a miss", func(t *testing.T) {
		s.SetError("ERR backend unavailable")
		defer s.SetError("")

		_, err := cache.GetLink(ctx, "absent")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrCacheMiss)
	})
}

func TestLinkCache_DeleteLink(t *testing.T) {
	cache, s := newTestLinkCache(t)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.SetLink(ctx, &model.Link{ShortCode: "gone", DestinationURL: "https://example.com"}))

	require.NoError(t, cache.DeleteLink(ctx, "gone"))
	assert.False(t, s.Exists(LinkKeyPrefix+"gone"))

	_, err := cache.GetLink(ctx, "gone")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
