package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const noticePrefix = "notice:"

type Client struct {
	rdb       *redis.Client
	noticeTTL time.Duration
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int, noticeTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(rdb, noticeTTL), nil
}

// NewWithClient wraps an existing go-redis client
func NewWithClient(rdb *redis.Client, noticeTTL time.Duration) *Client {
	if noticeTTL <= 0 {
		noticeTTL = time.Minute
	}
	return &Client{rdb: rdb, noticeTTL: noticeTTL}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

type storedNotice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// PutNotice stores a notice for one later read and returns its token
func (c *Client) PutNotice(ctx context.Context, level, message string) (string, error) {
	payload, err := json.Marshal(storedNotice{Level: level, Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal notice: %w", err)
	}

	token := uuid.NewString()
	if err := c.rdb.Set(ctx, noticePrefix+token, payload, c.noticeTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store notice: %w", err)
	}
	return token, nil
}

// PopNotice reads and deletes a notice in one step. ok is false when the
// token is unknown or has expired.
func (c *Client) PopNotice(ctx context.Context, token string) (level, message string, ok bool, err error) {
	raw, err := c.rdb.GetDel(ctx, noticePrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("failed to read notice: %w", err)
	}

	var n storedNotice
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", "", false, fmt.Errorf("failed to unmarshal notice: %w", err)
	}
	return n.Level, n.Message, true, nil
}
