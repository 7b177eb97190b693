package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lysyi3m/episode-pages/app/episode"
)

const (
	DefaultRedisKeyPrefix = "episode-pages:"
	redisOpTimeout        = 2 * time.Second
)

var _ PageRepository = (*RedisPageRepository)(nil)

type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisPageRepository shares generated pages between instances. Pages are
// stored without a TTL so a stale page stays servable until it is replaced.
type RedisPageRepository struct {
	client *redis.Client
	prefix string
}

type redisPage struct {
	Slug         string          `json:"slug"`
	Episode      episode.Episode `json:"episode"`
	HTML         []byte          `json:"html"`
	ContentHash  string          `json:"content_hash"`
	GeneratedAt  int64           `json:"generated_at"`
	RevalidateAt int64           `json:"revalidate_at"`
}

func NewRedisPageRepository(opts RedisOptions) (*RedisPageRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opts.Addr, "db", opts.DB)

	return newRedisPageRepository(client, opts.KeyPrefix), nil
}

func newRedisPageRepository(client *redis.Client, prefix string) *RedisPageRepository {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	return &RedisPageRepository{client: client, prefix: prefix}
}

func (r *RedisPageRepository) pageKey(slug string) string {
	return r.prefix + "page:" + slug
}

// indexKey is a sorted set of slugs scored by revalidation time in unix millis.
func (r *RedisPageRepository) indexKey() string {
	return r.prefix + "pages"
}

func (r *RedisPageRepository) GetPage(slug string) (*Page, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.pageKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	var stored redisPage
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode stored page: %w", err)
	}

	return &Page{
		Slug:         stored.Slug,
		Episode:      stored.Episode,
		HTML:         stored.HTML,
		ContentHash:  stored.ContentHash,
		GeneratedAt:  time.UnixMilli(stored.GeneratedAt).UTC(),
		RevalidateAt: time.UnixMilli(stored.RevalidateAt).UTC(),
	}, nil
}

func (r *RedisPageRepository) GetPageCount() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	count, err := r.client.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return int(count), nil
}

func (r *RedisPageRepository) GetStalePageCount(now time.Time) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	count, err := r.client.ZCount(ctx, r.indexKey(), "-inf", strconv.FormatInt(now.UnixMilli(), 10)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get stale page count: %w", err)
	}
	return int(count), nil
}

func (r *RedisPageRepository) UpsertPage(page Page) error {
	data, err := json.Marshal(redisPage{
		Slug:         page.Slug,
		Episode:      page.Episode,
		HTML:         page.HTML,
		ContentHash:  page.ContentHash,
		GeneratedAt:  page.GeneratedAt.UnixMilli(),
		RevalidateAt: page.RevalidateAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.pageKey(page.Slug), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(page.RevalidateAt.UnixMilli()),
			Member: page.Slug,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}
	return nil
}

func (r *RedisPageRepository) DeletePage(slug string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.pageKey(slug))
		pipe.ZRem(ctx, r.indexKey(), slug)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	return nil
}

func (r *RedisPageRepository) Close() error {
	return r.client.Close()
}
