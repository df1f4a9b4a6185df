package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/yegor77/pipeline-portwatch/pkg/snapshot"
	"go.uber.org/zap"
)

// Controller serves the read-only ops API over the snapshot store.
type Controller struct {
	Logger     *zap.Logger
	Store      *snapshot.Store
	RunLog     snapshot.RunLog
	AdminToken string
	JWTSecret  []byte
	// Ready reports whether the process can do work (e.g. Temporal reachable).
	Ready func(ctx context.Context) error

	sidecars *xsync.Map[string, cachedSidecar]
}

type cachedSidecar struct {
	modTime time.Time
	doc     map[string]any
}

// Deps are the inputs of NewController.
type Deps struct {
	Logger        *zap.Logger
	Store         *snapshot.Store
	RunLog        snapshot.RunLog
	AdminToken    string
	SessionSecret string
	Ready         func(ctx context.Context) error
}

// NewController returns a new controller.
func NewController(d Deps) *Controller {
	return &Controller{
		Logger:     d.Logger,
		Store:      d.Store,
		RunLog:     d.RunLog,
		AdminToken: d.AdminToken,
		JWTSecret:  []byte(d.SessionSecret),
		Ready:      d.Ready,
		sidecars:   xsync.NewMap[string, cachedSidecar](),
	}
}

// WithCORS is a middleware that adds CORS headers to the response.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet+", "+http.MethodPost+", "+http.MethodOptions)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter returns the router of the ops API.
func (c *Controller) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", c.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", c.HandleReady).Methods(http.MethodGet)
	r.HandleFunc("/api/token", c.HandleIssueToken).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(c.RequireAuth)
	api.HandleFunc("/zones", c.HandleZones).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zone}/snapshots", c.HandleSnapshots).Methods(http.MethodGet)
	api.HandleFunc("/zones/{zone}/latest", c.HandleLatest).Methods(http.MethodGet)
	api.HandleFunc("/runs", c.HandleRuns).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
