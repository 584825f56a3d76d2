package store

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores blobs as plain Redis string values.
type RedisBackend struct {
	client redis.UniversalClient
}

// NewRedisBackend wraps an existing client. The backend takes ownership and
// closes the client on Close.
func NewRedisBackend(client redis.UniversalClient) *RedisBackend {
	return &RedisBackend{client: client}
}

// DialRedis connects to the server described by a redis:// URL and checks
// the connection with PING.
func DialRedis(ctx context.Context, url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisBackend(client), nil
}

// Name returns "redis".
func (b *RedisBackend) Name() string { return "redis" }

// Get implements Backend.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, retryableIf(err, isTransientNetErr(err))
	}
	return data, true, nil
}

// Set implements Backend. Tiles never expire.
func (b *RedisBackend) Set(ctx context.Context, key string, data []byte) error {
	err := b.client.Set(ctx, key, data, 0).Err()
	return retryableIf(err, isTransientNetErr(err))
}

// Delete implements Backend.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	err := b.client.Del(ctx, key).Err()
	return retryableIf(err, isTransientNetErr(err))
}

// Keys implements Backend using SCAN so large keyspaces don't block the
// server.
func (b *RedisBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := b.client.Scan(ctx, 0, prefix+"*", 1000).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, retryableIf(err, isTransientNetErr(err))
	}
	return keys, nil
}

// Close closes the client.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// isTransientNetErr reports connection-level failures worth retrying.
func isTransientNetErr(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return stderrors.Is(err, io.EOF) ||
		stderrors.Is(err, io.ErrUnexpectedEOF) ||
		stderrors.Is(err, syscall.ECONNRESET) ||
		stderrors.Is(err, syscall.ECONNREFUSED) ||
		stderrors.Is(err, syscall.EPIPE)
}

// Ensure RedisBackend implements Backend.
var _ Backend = (*RedisBackend)(nil)
