package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/paystream/internal/client/models"
	"github.com/ethereum/go-ethereum/common"
)

// KeyLastIdentity holds the hex address of the most recent session.
const KeyLastIdentity = "session.last_identity"

// SnapshotKey is the cache key of the snapshot of view as seen by identity.
func SnapshotKey(view models.ViewMode, identity common.Address) string {
	return "snapshot." + string(view) + "." + strings.ToLower(identity.Hex())
}

type envelope struct {
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

// Cache stores JSON documents stamped with the time they were saved.
type Cache struct {
	repo Repository
}

func NewCache(repo Repository) *Cache {
	return &Cache{repo: repo}
}

// Put marshals v under key.
func (c *Cache) Put(ctx context.Context, key string, v any, savedAt time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache[%s]: %w", key, err)
	}
	raw, err := json.Marshal(envelope{SavedAt: savedAt.UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode cache[%s]: %w", key, err)
	}
	return c.repo.Set(ctx, key, raw)
}

// Fetch unmarshals the document under key into v. ok is false when the key
// is absent.
func (c *Cache) Fetch(ctx context.Context, key string, v any) (savedAt time.Time, ok bool, err error) {
	raw, err := c.repo.Get(ctx, key)
	if err != nil || raw == nil {
		return time.Time{}, false, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to decode cache[%s]: %w", key, err)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to decode cache[%s]: %w", key, err)
	}
	return env.SavedAt, true, nil
}

// Remember records identity as the last connected one.
func (c *Cache) Remember(ctx context.Context, identity common.Address) error {
	return c.repo.Set(ctx, KeyLastIdentity, []byte(identity.Hex()))
}

// LastIdentity returns the identity saved by Remember.
func (c *Cache) LastIdentity(ctx context.Context) (common.Address, bool, error) {
	raw, err := c.repo.Get(ctx, KeyLastIdentity)
	if err != nil || raw == nil {
		return common.Address{}, false, err
	}
	if !common.IsHexAddress(string(raw)) {
		return common.Address{}, false, fmt.Errorf("invalid stored identity %q", raw)
	}
	return common.HexToAddress(string(raw)), true, nil
}
