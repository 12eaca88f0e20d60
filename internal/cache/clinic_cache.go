package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashankshah/solace/internal/model"
)

// ClinicCache handles Redis lookups for clinic metadata on the intake hot
// path (every session start resolves a clinic code).
type ClinicCache interface {
	SetMeta(ctx context.Context, meta *model.ClinicMeta) error
	GetMeta(ctx context.Context, code string) (*model.ClinicMeta, error)
	Delete(ctx context.Context, code string) error
}

type clinicCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClinicCache creates a new clinic cache
func NewClinicCache(client *redis.Client) ClinicCache {
	return &clinicCache{
		client: client,
		ttl:    1 * time.Hour,
	}
}

func (c *clinicCache) key(code string) string {
	return fmt.Sprintf("clinic:%s", code)
}

func (c *clinicCache) SetMeta(ctx context.Context, meta *model.ClinicMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(meta.Code), data, c.ttl).Err()
}

func (c *clinicCache) GetMeta(ctx context.Context, code string) (*model.ClinicMeta, error) {
	data, err := c.client.Get(ctx, c.key(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.ClinicMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *clinicCache) Delete(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
