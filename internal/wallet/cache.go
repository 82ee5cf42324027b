package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"

	"github.com/Adi-21/bhidi0xgasless/internal/telemetry"
)

// ErrUnavailable means no SDK is wired or the credentials are incomplete.
var ErrUnavailable = errors.New("wallet SDK unavailable")

// Cache holds one configured Client per credential digest, evicting the
// least recently used client when full. Concurrent first use of a key shares
// a single Configure call; failures are not cached so the next request
// retries.
type Cache struct {
	sdk    SDK
	logger *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	clients *lru.Cache
}

// NewCache wraps sdk. sdk may be nil, in which case every Get reports
// ErrUnavailable. max <= 0 means unbounded.
func NewCache(sdk SDK, max int, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	if max < 0 {
		max = 0
	}
	clients := lru.New(max)
	clients.OnEvicted = func(key lru.Key, _ any) {
		logger.Debug("wallet client evicted", "client_key", key.(string)[:12])
	}
	return &Cache{sdk: sdk, logger: logger, clients: clients}
}

// Available reports whether an SDK is wired at all.
func (c *Cache) Available() bool {
	return c != nil && c.sdk != nil
}

// Get returns the cached client for creds, configuring it on first use.
func (c *Cache) Get(ctx context.Context, creds Credentials) (*Client, error) {
	if !c.Available() || !creds.Complete() {
		return nil, ErrUnavailable
	}
	key := creds.Key()

	if client, ok := c.lookup(key); ok {
		return client, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		if client, ok := c.lookup(key); ok {
			return client, nil
		}
		// One caller's cancellation must not fail the callers sharing this init.
		return c.configure(context.WithoutCancel(ctx), key, creds)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("wallet client init shared", "client_key", key[:12])
	}
	return v.(*Client), nil
}

// lookup marks key as recently used when present.
func (c *Cache) lookup(key string) (*Client, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.clients.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Client), true
}

func (c *Cache) configure(ctx context.Context, key string, creds Credentials) (*Client, error) {
	agent, err := c.sdk.Configure(ctx, creds)
	if err != nil {
		telemetry.IncWalletClientInit("error")
		c.logger.Warn("wallet client init failed", "client_key", key[:12], "chain_id", creds.ChainID, "error", err)
		return nil, fmt.Errorf("configure wallet client: %w", err)
	}
	actions, err := agent.Actions(ctx)
	if err != nil {
		telemetry.IncWalletClientInit("error")
		c.logger.Warn("wallet action listing failed", "client_key", key[:12], "error", err)
		return nil, fmt.Errorf("list wallet actions: %w", err)
	}
	client := &Client{Agent: agent, Actions: actions}
	telemetry.IncWalletClientInit("ok")
	c.logger.Info("wallet client initialized", "client_key", key[:12], "chain_id", creds.ChainID, "actions", len(actions))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients.Add(key, client)
	return client, nil
}

// Len reports the number of cached clients.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clients.Len()
}

// Forget drops a cached client so the next Get reconfigures it.
func (c *Cache) Forget(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients.Remove(creds.Key())
}
