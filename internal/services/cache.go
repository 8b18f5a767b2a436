package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// PageCacheService keeps fetched stats pages in Redis so reruns over the
// same slate do not refetch every profile.
type PageCacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Entry
}

func NewPageCacheService(client *redis.Client, ttl time.Duration, logger *logrus.Entry) *PageCacheService {
	return &PageCacheService{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ConnectRedis parses a redis:// URL and checks the server answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// PageCacheKey namespaces a page URL.
func PageCacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "page:" + hex.EncodeToString(sum[:])
}

// GetPage treats any Redis failure as a miss.
func (s *PageCacheService) GetPage(ctx context.Context, url string) (string, bool) {
	body, err := s.client.Get(ctx, PageCacheKey(url)).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("page cache read failed")
		}
		return "", false
	}
	return body, true
}

func (s *PageCacheService) SetPage(ctx context.Context, url, body string) error {
	if err := s.client.Set(ctx, PageCacheKey(url), body, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

func (s *PageCacheService) Delete(ctx context.Context, urls ...string) error {
	keys := make([]string, len(urls))
	for i, url := range urls {
		keys[i] = PageCacheKey(url)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}
