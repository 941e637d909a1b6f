package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisInvoker enqueues each command on the list "<prefix>:<command>" for an
// engine-side consumer.
type RedisInvoker struct {
	client redis.Cmdable
	prefix string
	closer func() error
}

// NewRedisInvoker works with *redis.Client and with redismock clients.
func NewRedisInvoker(client redis.Cmdable, prefix string) *RedisInvoker {
	inv := &RedisInvoker{client: client, prefix: prefix}
	if c, ok := client.(interface{ Close() error }); ok {
		inv.closer = c.Close
	}
	return inv
}

// QueueKey returns the list a command is pushed onto.
func (r *RedisInvoker) QueueKey(command string) string {
	return fmt.Sprintf("%s:%s", r.prefix, command)
}

func (r *RedisInvoker) Invoke(ctx context.Context, command string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", command, err)
	}

	key := r.QueueKey(command)
	position, err := r.client.RPush(ctx, key, string(body)).Result()
	if err != nil {
		var redisErr redis.Error
		if errors.As(err, &redisErr) {
			return nil, rejected(command, redisErr.Error())
		}
		return nil, unreachable(command, err)
	}

	return json.Marshal(map[string]interface{}{
		"queue":    key,
		"position": position,
	})
}

func (r *RedisInvoker) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
