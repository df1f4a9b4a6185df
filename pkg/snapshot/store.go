package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/utils"
)

// Zone is one storage partition of the pipeline.
type Zone string

const (
	ZoneRaw          Zone = "raw"
	ZoneStandardized Zone = "standardized"
	ZoneCurated      Zone = "curated"
)

// Zones lists every zone in pipeline order.
var Zones = []Zone{ZoneRaw, ZoneStandardized, ZoneCurated}

// ParseZone validates a zone name.
func ParseZone(s string) (Zone, error) {
	for _, z := range Zones {
		if string(z) == s {
			return z, nil
		}
	}
	return "", fmt.Errorf("unknown zone %q", s)
}

const (
	filePrefix    = "chokepoints_"
	fileExtension = ".parquet"
	sidecarExt    = ".json"
)

// ErrNoSnapshots is returned when a zone holds no snapshot files.
var ErrNoSnapshots = errors.New("no snapshots in zone")

// Store lays out snapshot files under a common root, one directory per zone.
// File names embed the run date so that lexicographic order is chronological.
type Store struct {
	Root string
}

func NewStore(root string) *Store {
	return &Store{Root: root}
}

// Dir returns the directory of z.
func (s *Store) Dir(z Zone) string {
	return filepath.Join(s.Root, string(z))
}

// EnsureDirs creates every zone directory.
func (s *Store) EnsureDirs() error {
	for _, z := range Zones {
		if err := os.MkdirAll(s.Dir(z), 0o755); err != nil {
			return fmt.Errorf("create %s zone dir: %w", z, err)
		}
	}
	return nil
}

// FileName returns the snapshot name for a run on date.
func FileName(z Zone, date time.Time) string {
	return fmt.Sprintf("%s%s_%s%s", filePrefix, z, utils.DateKey(date), fileExtension)
}

// PathFor returns where a run on date writes its snapshot in z.
func (s *Store) PathFor(z Zone, date time.Time) string {
	return filepath.Join(s.Dir(z), FileName(z, date))
}

// List returns the snapshot paths of z in ascending filename order. A
// missing directory is an empty zone.
func (s *Store) List(z Zone) ([]string, error) {
	entries, err := os.ReadDir(s.Dir(z))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	prefix := fmt.Sprintf("%s%s_", filePrefix, z)
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, fileExtension) {
			continue
		}
		out = append(out, filepath.Join(s.Dir(z), name))
	}
	sort.Strings(out)
	return out, nil
}

// Latest returns the lexicographically last snapshot of z.
func (s *Store) Latest(z Zone) (string, error) {
	paths, err := s.List(z)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoSnapshots, s.Dir(z))
	}
	return paths[len(paths)-1], nil
}

// SidecarPath returns the metadata document path paired with a snapshot.
func SidecarPath(snapshotPath string) string {
	return strings.TrimSuffix(snapshotPath, fileExtension) + sidecarExt
}

// writeAtomic writes through a temporary sibling and renames it into place so
// readers never observe a partial file.
func writeAtomic(path string, write func(tmp string) error) error {
	tmp := path + ".tmp"
	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
