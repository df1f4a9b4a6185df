package controller

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/yegor77/pipeline-portwatch/pkg/snapshot"
	"go.uber.org/zap"
)

// SnapshotInfo describes one snapshot file.
type SnapshotInfo struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
	HasSidecar bool      `json:"has_sidecar"`
}

// ZoneSummary is one entry of the zones listing.
type ZoneSummary struct {
	Zone      string  `json:"zone"`
	Snapshots int     `json:"snapshots"`
	Latest    *string `json:"latest"`
}

func (c *Controller) HandleZones(w http.ResponseWriter, r *http.Request) {
	out := make([]ZoneSummary, 0, len(snapshot.Zones))
	for _, z := range snapshot.Zones {
		paths, err := c.Store.List(z)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s := ZoneSummary{Zone: string(z), Snapshots: len(paths)}
		if len(paths) > 0 {
			name := filepath.Base(paths[len(paths)-1])
			s.Latest = &name
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *Controller) HandleSnapshots(w http.ResponseWriter, r *http.Request) {
	zone, err := snapshot.ParseZone(mux.Vars(r)["zone"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	paths, err := c.Store.List(zone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]SnapshotInfo, 0, len(paths))
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			continue
		}
		_, sidecarErr := os.Stat(snapshot.SidecarPath(p))
		out = append(out, SnapshotInfo{
			Name:       filepath.Base(p),
			Path:       p,
			SizeBytes:  st.Size(),
			ModifiedAt: st.ModTime().UTC(),
			HasSidecar: sidecarErr == nil,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleLatest returns the sidecar document of the zone's latest snapshot.
func (c *Controller) HandleLatest(w http.ResponseWriter, r *http.Request) {
	zone, err := snapshot.ParseZone(mux.Vars(r)["zone"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	latest, err := c.Store.Latest(zone)
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshots) {
			writeError(w, http.StatusNotFound, "no snapshots in zone "+string(zone))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	doc, err := c.loadSidecar(snapshot.SidecarPath(latest))
	if err != nil {
		c.Logger.Warn("Failed to read sidecar", zap.String("snapshot", latest), zap.Error(err))
		writeError(w, http.StatusNotFound, "sidecar unavailable for "+filepath.Base(latest))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshot": latest, "metadata": doc})
}

// loadSidecar parses a sidecar, reusing the cached document while the file
// is unchanged.
func (c *Controller) loadSidecar(path string) (map[string]any, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if cached, ok := c.sidecars.Load(path); ok && cached.modTime.Equal(st.ModTime()) {
		return cached.doc, nil
	}
	var doc map[string]any
	if err := snapshot.ReadSidecar(path, &doc); err != nil {
		return nil, err
	}
	c.sidecars.Store(path, cachedSidecar{modTime: st.ModTime(), doc: doc})
	return doc, nil
}

func (c *Controller) HandleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	lines, err := c.RunLog.Tail(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
}
