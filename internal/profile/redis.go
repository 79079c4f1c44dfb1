// Package profile persists the operator profile in an external key-value
// collaborator. The profile is presentation data, deliberately kept outside
// the commerce session state.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

type Store interface {
	Get(ctx context.Context, operatorID string) (*Profile, error)
	Save(ctx context.Context, operatorID string, p *Profile) error
}

var ErrProfileNotFound = errors.New("profile not found")

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) Get(ctx context.Context, operatorID string) (*Profile, error) {
	data, err := r.client.Get(ctx, profileKey(operatorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var p Profile
	if err2 := json.Unmarshal(data, &p); err2 != nil {
		return nil, fmt.Errorf("unmarshal profile failed: %w", err2)
	}
	return &p, nil
}

func (r *RedisStore) Save(ctx context.Context, operatorID string, p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile failed: %w", err)
	}
	if err := r.client.Set(ctx, profileKey(operatorID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func profileKey(operatorID string) string {
	return fmt.Sprintf("profile:%s", operatorID)
}
