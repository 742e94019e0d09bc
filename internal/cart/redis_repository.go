package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores the cart as one JSON array under "<prefix>cart".
type RedisRepository struct {
	client redis.Cmdable
	key    string
}

func NewRedisRepository(client redis.Cmdable, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = "storefront:"
	}
	return &RedisRepository{client: client, key: prefix + "cart"}
}

func (r *RedisRepository) Load(ctx context.Context) ([]Line, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(b, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (r *RedisRepository) Save(ctx context.Context, lines []Line) error {
	if len(lines) == 0 {
		return r.client.Del(ctx, r.key).Err()
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}
