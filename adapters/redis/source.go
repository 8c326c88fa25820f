package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rankboard/core"
)

// DefaultKey is the list holding the roster when Config.Key is empty.
const DefaultKey = "rankboard:roster"

// Config holds Redis connection configuration
type Config struct {
	Addr         string        `json:"addr" env:"RANKBOARD_REDIS_ADDR"`
	Password     string        `json:"password" env:"RANKBOARD_REDIS_PASSWORD"`
	DB           int           `json:"db" env:"RANKBOARD_REDIS_DB"`
	Key          string        `json:"key" env:"RANKBOARD_REDIS_KEY"`
	PoolSize     int           `json:"pool_size" env:"RANKBOARD_REDIS_POOL_SIZE"`
	MinIdleConns int           `json:"min_idle_conns" env:"RANKBOARD_REDIS_MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `json:"dial_timeout" env:"RANKBOARD_REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `json:"read_timeout" env:"RANKBOARD_REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"write_timeout" env:"RANKBOARD_REDIS_WRITE_TIMEOUT"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		Key:          DefaultKey,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Source reads a roster from a Redis list. Each element is a JSON object
// {"name": ..., "score": ...}; list order is roster order.
type Source struct {
	client *redis.Client
	key    string
}

type entry struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// New creates a Redis-backed roster source and checks the connection.
func New(config Config) (*Source, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, config.Key), nil
}

// NewWithClient wraps an existing client (useful for testing).
func NewWithClient(client *redis.Client, key string) *Source {
	if key == "" {
		key = DefaultKey
	}
	return &Source{client: client, key: key}
}

// Close closes the Redis connection
func (s *Source) Close() error {
	return s.client.Close()
}

func (s *Source) Key() string { return s.key }

// Load reads the whole roster list.
func (s *Source) Load(ctx context.Context) ([]*core.Record, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	out := make([]*core.Record, 0, len(raw))
	for i, item := range raw {
		var e entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("roster entry %d: %w", i, err)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("roster entry %d: %w", i, errors.New("empty name"))
		}
		out = append(out, core.NewRecord(e.Name, e.Score))
	}
	return out, nil
}

// Seed replaces the roster list with records in a single transaction.
func (s *Source) Seed(ctx context.Context, records []*core.Record) error {
	values := make([]any, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(entry{Name: r.Name(), Score: r.Score()})
		if err != nil {
			return err
		}
		values = append(values, string(b))
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key)
		if len(values) > 0 {
			p.RPush(ctx, s.key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed roster: %w", err)
	}
	return nil
}
