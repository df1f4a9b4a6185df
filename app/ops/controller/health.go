package controller

import (
	"context"
	"net/http"
	"time"
)

func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady checks the storage root and, when configured, the orchestrator.
func (c *Controller) HandleReady(w http.ResponseWriter, r *http.Request) {
	if err := c.Store.EnsureDirs(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage: "+err.Error())
		return
	}
	if c.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := c.Ready(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
