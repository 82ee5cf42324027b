// Package wallet talks to the wallet-automation SDK: it configures agents
// from per-request credentials, caches them per credential set and runs
// named actions.
package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Credentials identify one smart wallet. They come from request headers and
// are never logged or persisted.
type Credentials struct {
	PrivateKey    string
	RPCURL        string
	GaslessAPIKey string
	ChainID       int
}

// Complete reports whether the SDK can be configured with c.
func (c Credentials) Complete() bool {
	return c.PrivateKey != "" && c.RPCURL != "" && c.GaslessAPIKey != ""
}

// Key is a stable digest of the credential set, safe to use as a map key
// and in logs.
func (c Credentials) Key() string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		c.PrivateKey, c.RPCURL, c.GaslessAPIKey, strconv.Itoa(c.ChainID),
	}, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Action is one named capability exposed by a configured agent.
type Action struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// SDK builds agents bound to a wallet.
type SDK interface {
	Configure(ctx context.Context, creds Credentials) (Agent, error)
}

// Agent is a wallet-bound SDK client. Run returns the SDK's free-form
// result text.
type Agent interface {
	Actions(ctx context.Context) ([]Action, error)
	Run(ctx context.Context, action string, params map[string]any) (string, error)
}

// Client is a configured agent together with the actions it reported at
// construction time.
type Client struct {
	Agent   Agent
	Actions []Action
}

// Action looks up an action by name.
func (c *Client) Action(name string) (Action, bool) {
	for _, a := range c.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Run invokes a named action after checking the agent exposes it.
func (c *Client) Run(ctx context.Context, name string, params map[string]any) (string, error) {
	if _, ok := c.Action(name); !ok {
		return "", fmt.Errorf("action %s not found", name)
	}
	return c.Agent.Run(ctx, name, params)
}
