package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yegor77/pipeline-portwatch/pkg/snapshot"
	"go.uber.org/zap/zaptest"
)

func setupTestController(t *testing.T, token, secret string) (*Controller, *snapshot.Store) {
	t.Helper()
	root := t.TempDir()
	store := snapshot.NewStore(filepath.Join(root, "database"))
	require.NoError(t, store.EnsureDirs())
	c := NewController(Deps{
		Logger:        zaptest.NewLogger(t),
		Store:         store,
		RunLog:        snapshot.RunLog{Path: filepath.Join(root, "logs", "exec_raw.log")},
		AdminToken:    token,
		SessionSecret: secret,
	})
	return c, store
}

func do(t *testing.T, h http.Handler, method, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthIsOpen(t *testing.T) {
	c, _ := setupTestController(t, "secret-token", "")
	rr := do(t, c.NewRouter(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestReadyReflectsProbe(t *testing.T) {
	c, _ := setupTestController(t, "", "")
	c.Ready = func(context.Context) error { return errors.New("temporal unreachable") }
	rr := do(t, c.NewRouter(), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	c.Ready = func(context.Context) error { return nil }
	rr = do(t, c.NewRouter(), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	c, _ := setupTestController(t, "secret-token", "")
	router := c.NewRouter()

	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/runs", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/runs", "wrong").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/runs", "secret-token-x").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/runs", "secret-toke").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/runs", "secret-tokeN").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/runs", "secret-token").Code)
}

func TestValidateTokenRejectsEmptyConfiguredToken(t *testing.T) {
	c := &Controller{}
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.Header.Set("Authorization", "Bearer ")
	assert.False(t, c.ValidateToken(req))

	c.AdminToken = "secret-token"
	assert.False(t, c.ValidateToken(req))
	req.Header.Set("Authorization", "Bearer secret-token")
	assert.True(t, c.ValidateToken(req))
}

func TestAPIOpenWithoutCredentials(t *testing.T) {
	c, _ := setupTestController(t, "", "")
	assert.Equal(t, http.StatusOK, do(t, c.NewRouter(), http.MethodGet, "/api/zones", "").Code)
}

func TestSessionTokenFlow(t *testing.T) {
	c, _ := setupTestController(t, "secret-token", "session-secret")
	router := c.NewRouter()

	rr := do(t, router, http.MethodPost, "/api/token", "secret-token")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/zones", body.Token).Code)

	other := &Controller{JWTSecret: []byte("another-secret")}
	forged, err := other.IssueToken("x", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/zones", forged).Code)

	expired, err := c.IssueToken("x", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(t, router, http.MethodGet, "/api/zones", expired).Code)
}

func TestLatestSidecar(t *testing.T) {
	c, store := setupTestController(t, "", "")
	router := c.NewRouter()

	rr := do(t, router, http.MethodGet, "/api/zones/curated/latest", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	older := store.PathFor(snapshot.ZoneCurated, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := store.PathFor(snapshot.ZoneCurated, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	for i, p := range []string{older, newer} {
		require.NoError(t, os.WriteFile(p, []byte("PAR1"), 0o644))
		require.NoError(t, snapshot.WriteSidecar(snapshot.SidecarPath(p), map[string]any{"rows": i + 1}))
	}

	rr = do(t, router, http.MethodGet, "/api/zones/curated/latest", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Snapshot string         `json:"snapshot"`
		Metadata map[string]any `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, newer, body.Snapshot)
	assert.EqualValues(t, 2, body.Metadata["rows"])

	_, cached := c.sidecars.Load(snapshot.SidecarPath(newer))
	assert.True(t, cached)
}

func TestSnapshotsUnknownZone(t *testing.T) {
	c, _ := setupTestController(t, "", "")
	rr := do(t, c.NewRouter(), http.MethodGet, "/api/zones/gold/snapshots", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSnapshotsListing(t *testing.T) {
	c, store := setupTestController(t, "", "")
	p := store.PathFor(snapshot.ZoneRaw, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, os.WriteFile(p, []byte("PAR1"), 0o644))

	rr := do(t, c.NewRouter(), http.MethodGet, "/api/zones/raw/snapshots", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var out []SnapshotInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "chokepoints_raw_20250304.parquet", out[0].Name)
	assert.False(t, out[0].HasSidecar)
}

func TestRunsTail(t *testing.T) {
	c, _ := setupTestController(t, "", "")
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		require.NoError(t, c.RunLog.Append(at, i, "out.parquet"))
	}

	rr := do(t, c.NewRouter(), http.MethodGet, "/api/runs?limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Lines []string `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Lines, 2)
	assert.Contains(t, body.Lines[1], "extraction OK - 3 records")

	assert.Equal(t, http.StatusBadRequest, do(t, c.NewRouter(), http.MethodGet, "/api/runs?limit=x", "").Code)
}

func TestCORSPreflight(t *testing.T) {
	c, _ := setupTestController(t, "secret-token", "")
	h := WithCORS(c.NewRouter())
	req := httptest.NewRequest(http.MethodOptions, "/api/runs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}
