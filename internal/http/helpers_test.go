package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"travelhub/internal/config"
	"travelhub/internal/http/handlers"
	applog "travelhub/internal/log"
	"travelhub/internal/notify"
	"travelhub/internal/repos"
)

type testApp struct {
	*fiber.App
	sink *notify.MemorySink
}

// newTestApp wires the real middleware chain over a seeded in-memory store.
func newTestApp(t *testing.T, mutate ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := config.Test()
	for _, m := range mutate {
		m(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN, cfg.SeedDemo)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sink := &notify.MemorySink{}
	return &testApp{App: handlers.NewApp(cfg, db, sink), sink: sink}
}

// call sends a JSON request and decodes the JSON response into out when non-nil.
func (a *testApp) call(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "body=%s", raw)
	}
	return resp
}

func (a *testApp) login(t *testing.T, username string) string {
	t.Helper()
	return a.loginWith(t, username, "Passw0rd!")
}

func (a *testApp) loginWith(t *testing.T, username, password string) string {
	t.Helper()
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	resp := a.call(t, "POST", "/auth/login", "", map[string]string{"username": username, "password": password}, &tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Status int            `json:"status"`
	ReqID  string         `json:"req_id"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(os.Stdout)

	fn()

	buf.mu.Lock()
	defer buf.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
