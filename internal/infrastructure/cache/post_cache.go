package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

const postKeyPrefix = "post:"

// PostCache keeps single posts in redis as JSON. Redis failures are logged
// and treated as misses.
type PostCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewPostCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *PostCache {
	return &PostCache{rdb: rdb, ttl: ttl, logger: logger}
}

func postKey(id int64) string { return postKeyPrefix + strconv.FormatInt(id, 10) }

func (c *PostCache) Get(ctx context.Context, id int64) (*entity.Post, bool) {
	var p entity.Post
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, postKey(id), &p)
	if err != nil {
		c.logger.WithError(err).WithField("post_id", id).Warn("post cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *PostCache) Set(ctx context.Context, p *entity.Post) {
	if err := helpers.RedisSetJSON(ctx, c.rdb, postKey(p.ID), p, c.ttl); err != nil {
		c.logger.WithError(err).WithField("post_id", p.ID).Warn("post cache write failed")
	}
}

func (c *PostCache) Invalidate(ctx context.Context, id int64) {
	if err := helpers.RedisDel(ctx, c.rdb, postKey(id)); err != nil {
		c.logger.WithError(err).WithField("post_id", id).Warn("post cache invalidate failed")
	}
}
