package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Adi-21/bhidi0xgasless/internal/telemetry"
)

// Bridge is an SDK implementation that drives the wallet-automation SDK
// running in a sidecar process over HTTP.
//
//	POST /v1/agents                      configure, returns agent id and actions
//	GET  /v1/agents/{id}/actions         list actions
//	POST /v1/agents/{id}/actions/{name}  run an action, returns result text
type Bridge struct {
	baseURL    string
	secret     []byte
	httpClient *http.Client
}

func NewBridge(baseURL, secret string, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Bridge{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secret:     []byte(secret),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-success bridge response. Body carries the SDK's error
// text, which may still contain a transaction hash.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

// SECURITY: HS256 with the shared bridge secret; 5 min expiry. The subject is
// the credential digest so the sidecar can correlate without seeing keys in
// logs.
func (b *Bridge) makeJWT(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    "walletgw",
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.secret)
}

func (b *Bridge) doAPI(ctx context.Context, method, path, subject string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(b.secret) > 0 {
		token, err := b.makeJWT(subject)
		if err != nil {
			return nil, fmt.Errorf("sign JWT: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return b.httpClient.Do(req)
}

// readAPIError drains a failed response. JSON bodies of the form
// {"error": "..."} or {"message": "..."} are reduced to the message.
func readAPIError(operation string, resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s HTTP %d and read body failed: %w", operation, resp.StatusCode, err)
	}
	telemetry.IncUpstreamAPIError(operation, resp.StatusCode)

	msg := strings.TrimSpace(string(raw))
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		switch {
		case parsed.Error != "":
			msg = parsed.Error
		case parsed.Message != "":
			msg = parsed.Message
		}
	}
	return &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: msg}
}

type configureRequest struct {
	PrivateKey    string `json:"privateKey"`
	RPCURL        string `json:"rpcUrl"`
	GaslessAPIKey string `json:"apiKey"`
	ChainID       int    `json:"chainID"`
}

type configureResponse struct {
	AgentID string   `json:"agentId"`
	Actions []Action `json:"actions"`
}

// Configure mirrors the SDK's configureWithWallet.
func (b *Bridge) Configure(ctx context.Context, creds Credentials) (Agent, error) {
	subject := creds.Key()
	resp, err := b.doAPI(ctx, http.MethodPost, "/v1/agents", subject, configureRequest{
		PrivateKey:    creds.PrivateKey,
		RPCURL:        creds.RPCURL,
		GaslessAPIKey: creds.GaslessAPIKey,
		ChainID:       creds.ChainID,
	})
	if err != nil {
		return nil, fmt.Errorf("configure agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, readAPIError("configure agent", resp)
	}

	var out configureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode configure response: %w", err)
	}
	if out.AgentID == "" {
		return nil, fmt.Errorf("configure agent: bridge returned no agent id")
	}
	return &bridgeAgent{bridge: b, id: out.AgentID, subject: subject, initial: out.Actions}, nil
}

type bridgeAgent struct {
	bridge  *Bridge
	id      string
	subject string
	initial []Action
}

func (a *bridgeAgent) Actions(ctx context.Context) ([]Action, error) {
	if len(a.initial) > 0 {
		return a.initial, nil
	}
	resp, err := a.bridge.doAPI(ctx, http.MethodGet, "/v1/agents/"+url.PathEscape(a.id)+"/actions", a.subject, nil)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError("list actions", resp)
	}
	var out struct {
		Actions []Action `json:"actions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}
	return out.Actions, nil
}

func (a *bridgeAgent) Run(ctx context.Context, action string, params map[string]any) (string, error) {
	if params == nil {
		params = map[string]any{}
	}
	path := "/v1/agents/" + url.PathEscape(a.id) + "/actions/" + url.PathEscape(action)
	resp, err := a.bridge.doAPI(ctx, http.MethodPost, path, a.subject, map[string]any{"params": params})
	if err != nil {
		return "", fmt.Errorf("run %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError("run "+action, resp)
	}
	var out struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode %s result: %w", action, err)
	}
	return resultText(out.Result), nil
}

// resultText unquotes string results and passes structured ones through as
// compact JSON.
func resultText(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}
