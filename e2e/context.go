package e2e

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext carries one scenario's state: who is acting, the tokens minted
// for each principal, and the last response.
type TestContext struct {
	BaseURL    string
	AdminToken string
	client     *http.Client

	runID      string
	principals map[string]string
	tokens     map[string]string
	actor      string
	saved      map[string]string

	lastStatus int
	lastBody   []byte
}

// NewTestContext reads the target from E2E_BASE_URL, the operator token from
// E2E_ADMIN_TOKEN and the genesis admin from E2E_ADMIN_ADDRESS.
func NewTestContext() *TestContext {
	tc := &TestContext{
		BaseURL:    strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/"),
		AdminToken: os.Getenv("E2E_ADMIN_TOKEN"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
	tc.Reset()
	return tc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Reset clears per-scenario state. Deployment keys are burned forever, so
// every scenario gets a fresh run id to suffix them with.
func (tc *TestContext) Reset() {
	tc.runID = randomHex(4)
	tc.principals = map[string]string{}
	tc.tokens = map[string]string{}
	tc.saved = map[string]string{}
	tc.actor = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	if admin := os.Getenv("E2E_ADMIN_ADDRESS"); admin != "" {
		tc.principals["admin"] = strings.ToLower(admin)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Address returns the address playing name, inventing one on first use.
func (tc *TestContext) Address(name string) string {
	if addr, ok := tc.principals[name]; ok {
		return addr
	}
	addr := "0x" + randomHex(20)
	tc.principals[name] = addr
	return addr
}

// Key scopes a deployment key to this scenario.
func (tc *TestContext) Key(name string) string {
	return name + "-" + tc.runID
}

func (tc *TestContext) Save(name, value string) { tc.saved[name] = value }

func (tc *TestContext) Saved(name string) (string, error) {
	v, ok := tc.saved[name]
	if !ok {
		return "", fmt.Errorf("nothing saved as %q", name)
	}
	return v, nil
}

// ActAs makes name the caller of subsequent requests, minting a token for it
// through the admin endpoint when needed.
func (tc *TestContext) ActAs(name string) error {
	tc.actor = name
	if _, ok := tc.tokens[name]; ok {
		return nil
	}
	body := map[string]any{"principal": tc.Address(name), "ttl": "10m"}
	if err := tc.do(http.MethodPost, "/admin/tokens", body, map[string]string{"X-Admin-Token": tc.AdminToken}); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusOK {
		return fmt.Errorf("minting token for %s: status %d: %s", name, tc.lastStatus, tc.lastBody)
	}
	token, err := tc.GetResponseField("access_token")
	if err != nil {
		return err
	}
	tc.tokens[name] = token.(string)
	return nil
}

func (tc *TestContext) GET(path string) error {
	return tc.Request(http.MethodGet, path, nil)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.Request(http.MethodPost, path, body)
}

func (tc *TestContext) PUT(path string, body any) error {
	return tc.Request(http.MethodPut, path, body)
}

// Request sends an authenticated request as the current actor.
func (tc *TestContext) Request(method, path string, body any) error {
	headers := map[string]string{}
	if token, ok := tc.tokens[tc.actor]; ok {
		headers["Authorization"] = "Bearer " + token
	}
	return tc.do(method, path, body, headers)
}

func (tc *TestContext) do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GetLastResponseStatus() int { return tc.lastStatus }

func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

// GetResponseField reads a dotted path such as "suite.asset" from the last
// JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var v any
	if err := json.Unmarshal(tc.lastBody, &v); err != nil {
		return nil, fmt.Errorf("response is not json: %w", err)
	}
	for _, part := range strings.Split(field, ".") {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		if v, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.lastBody)
		}
	}
	return v, nil
}
