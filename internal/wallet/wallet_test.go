package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type fakeAgent struct {
	actions []Action
	result  string
	err     error
}

func (a *fakeAgent) Actions(context.Context) ([]Action, error) { return a.actions, nil }

func (a *fakeAgent) Run(_ context.Context, _ string, _ map[string]any) (string, error) {
	return a.result, a.err
}

type fakeSDK struct {
	calls   atomic.Int32
	release chan struct{}
	fail    error
}

func (s *fakeSDK) Configure(ctx context.Context, _ Credentials) (Agent, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.fail != nil {
		return nil, s.fail
	}
	return &fakeAgent{actions: []Action{{Name: "get_address"}}, result: "0xabc"}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var testCreds = Credentials{PrivateKey: "0xkey", RPCURL: "https://rpc", GaslessAPIKey: "g", ChainID: 43114}

func TestCredentialsKeyAndCompleteness(t *testing.T) {
	if !testCreds.Complete() {
		t.Fatal("expected complete credentials")
	}
	if (Credentials{PrivateKey: "k", RPCURL: "r"}).Complete() {
		t.Fatal("missing gasless key must be incomplete")
	}
	other := testCreds
	other.ChainID = 56
	if testCreds.Key() == other.Key() {
		t.Fatal("chain id must be part of the key")
	}
	if len(testCreds.Key()) != 64 || strings.Contains(testCreds.Key(), "0xkey") {
		t.Fatalf("unexpected key %q", testCreds.Key())
	}
}

func TestCacheSharesConcurrentInit(t *testing.T) {
	sdk := &fakeSDK{release: make(chan struct{})}
	cache := NewCache(sdk, 0, quietLogger())

	const callers = 16
	var wg sync.WaitGroup
	clients := make([]*Client, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := cache.Get(context.Background(), testCreds)
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			clients[i] = c
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(sdk.release)
	wg.Wait()

	if got := sdk.calls.Load(); got != 1 {
		t.Fatalf("want 1 Configure call, got %d", got)
	}
	for i := 1; i < callers; i++ {
		if clients[i] != clients[0] {
			t.Fatal("all callers must share one client")
		}
	}
	if cache.Len() != 1 {
		t.Fatalf("want 1 cached client, got %d", cache.Len())
	}
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	sdk := &fakeSDK{fail: errors.New("bad key")}
	cache := NewCache(sdk, 0, quietLogger())

	for i := 0; i < 2; i++ {
		if _, err := cache.Get(context.Background(), testCreds); err == nil {
			t.Fatal("expected configure error")
		}
	}
	if got := sdk.calls.Load(); got != 2 {
		t.Fatalf("failures must be retried, got %d calls", got)
	}
	if cache.Len() != 0 {
		t.Fatalf("want empty cache, got %d", cache.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	sdk := &fakeSDK{}
	cache := NewCache(sdk, 2, quietLogger())
	for _, chain := range []int{1, 2, 3} {
		creds := testCreds
		creds.ChainID = chain
		if _, err := cache.Get(context.Background(), creds); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("want 2 cached clients, got %d", cache.Len())
	}
	first := testCreds
	first.ChainID = 1
	if _, err := cache.Get(context.Background(), first); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := sdk.calls.Load(); got != 4 {
		t.Fatalf("evicted client must be rebuilt, got %d calls", got)
	}

	cache.Forget(first)
	if cache.Len() != 1 {
		t.Fatalf("want 1 cached client after Forget, got %d", cache.Len())
	}
}

func TestCacheKeepsRecentlyUsedClient(t *testing.T) {
	sdk := &fakeSDK{}
	cache := NewCache(sdk, 2, quietLogger())
	get := func(chain int) {
		t.Helper()
		creds := testCreds
		creds.ChainID = chain
		if _, err := cache.Get(context.Background(), creds); err != nil {
			t.Fatalf("Get(%d): %v", chain, err)
		}
	}

	get(1)
	get(2)
	get(1)
	get(3)
	if got := sdk.calls.Load(); got != 3 {
		t.Fatalf("want 3 configure calls, got %d", got)
	}
	get(1)
	if got := sdk.calls.Load(); got != 3 {
		t.Fatalf("recently used client must stay cached, got %d calls", got)
	}
	get(2)
	if got := sdk.calls.Load(); got != 4 {
		t.Fatalf("least recently used client must be evicted, got %d calls", got)
	}
}

func TestCacheUnavailable(t *testing.T) {
	if _, err := NewCache(nil, 0, nil).Get(context.Background(), testCreds); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable without SDK, got %v", err)
	}
	cache := NewCache(&fakeSDK{}, 0, quietLogger())
	if _, err := cache.Get(context.Background(), Credentials{PrivateKey: "k"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable for incomplete credentials, got %v", err)
	}
}

func TestClientRunChecksAction(t *testing.T) {
	c := &Client{Agent: &fakeAgent{result: "ok"}, Actions: []Action{{Name: "smart_transfer"}}}
	if _, err := c.Run(context.Background(), "smart_swap", nil); err == nil || err.Error() != "action smart_swap not found" {
		t.Fatalf("unexpected error %v", err)
	}
	out, err := c.Run(context.Background(), "smart_transfer", nil)
	if err != nil || out != "ok" {
		t.Fatalf("want ok, got %q (%v)", out, err)
	}
}

func TestBridgeConfigureAndRun(t *testing.T) {
	const secret = "bridge-secret"
	var sawAuth atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		sawAuth.Store(true)

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/agents":
			var body configureRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.PrivateKey != "0xkey" || body.ChainID != 43114 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"agentId": "a1"})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/agents/a1/actions":
			_ = json.NewEncoder(w).Encode(map[string]any{"actions": []Action{{Name: "smart_transfer"}}})
		case r.URL.Path == "/v1/agents/a1/actions/smart_transfer":
			var body struct {
				Params map[string]any `json:"params"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Params["destination"] == "fail" {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(`{"error":"bundler error: 0x` + strings.Repeat("ab", 32) + `"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": "Transfer sent"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	bridge := NewBridge(srv.URL+"/", secret, time.Second)
	agent, err := bridge.Configure(context.Background(), testCreds)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	actions, err := agent.Actions(context.Background())
	if err != nil || len(actions) != 1 || actions[0].Name != "smart_transfer" {
		t.Fatalf("unexpected actions %v (%v)", actions, err)
	}

	out, err := agent.Run(context.Background(), "smart_transfer", map[string]any{"destination": "0x1"})
	if err != nil || out != "Transfer sent" {
		t.Fatalf("want %q, got %q (%v)", "Transfer sent", out, err)
	}

	_, err = agent.Run(context.Background(), "smart_transfer", map[string]any{"destination": "fail"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || !strings.HasPrefix(apiErr.Body, "bundler error: 0x") {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if !sawAuth.Load() {
		t.Fatal("bridge requests must carry a signed token")
	}
}

func TestBridgeConfigureRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Smart Account is required"}`))
	}))
	defer srv.Close()

	_, err := NewBridge(srv.URL, "", time.Second).Configure(context.Background(), testCreds)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Body != "Smart Account is required" {
		t.Fatalf("want APIError with message, got %v", err)
	}
	if !strings.Contains(err.Error(), "configure agent HTTP 422") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestResultText(t *testing.T) {
	if got := resultText(json.RawMessage(`"plain"`)); got != "plain" {
		t.Errorf("resultText(string) = %q", got)
	}
	if got := resultText(json.RawMessage(`{"hash":"0x1"}`)); got != `{"hash":"0x1"}` {
		t.Errorf("resultText(object) = %q", got)
	}
}
