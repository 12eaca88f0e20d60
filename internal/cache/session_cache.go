package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ashankshah/solace/internal/model"
)

// SessionCache mirrors intake session metadata into Redis so the clinician
// dashboard can list in-flight sessions. Interview state itself never lands
// here; it stays in the owning session.
type SessionCache interface {
	Set(ctx context.Context, meta *model.SessionMeta) error
	Get(ctx context.Context, id string) (*model.SessionMeta, error)
	ListByClinic(ctx context.Context, clinicCode string) ([]*model.SessionMeta, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session metadata cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    4 * time.Hour, // intake sessions are short-lived
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (c *sessionCache) clinicKey(code string) string {
	return fmt.Sprintf("clinic:%s:sessions", code)
}

func (c *sessionCache) Set(ctx context.Context, meta *model.SessionMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, c.key(meta.ID), data, c.ttl)
	pipe.SAdd(ctx, c.clinicKey(meta.ClinicCode), meta.ID)
	pipe.Expire(ctx, c.clinicKey(meta.ClinicCode), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.SessionMeta, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.SessionMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *sessionCache) ListByClinic(ctx context.Context, clinicCode string) ([]*model.SessionMeta, error) {
	ids, err := c.client.SMembers(ctx, c.clinicKey(clinicCode)).Result()
	if err != nil {
		return nil, err
	}

	metas := make([]*model.SessionMeta, 0, len(ids))
	for _, id := range ids {
		meta, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if meta == nil {
			// Expired entry still referenced by the set; drop it lazily.
			c.client.SRem(ctx, c.clinicKey(clinicCode), id)
			continue
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	meta, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	if meta != nil {
		c.client.SRem(ctx, c.clinicKey(meta.ClinicCode), id)
	}
	return c.client.Del(ctx, c.key(id)).Err()
}
