package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog is the append-only text log of successful acquisitions.
type RunLog struct {
	Path string
}

// Append records one successful extraction.
func (l RunLog) Append(at time.Time, rows int, output string) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "[%s] extraction OK - %d records - %s\n", at.Format("2006-01-02 15:04:05"), rows, output); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Tail returns up to n of the most recent lines, oldest first. A missing log
// has no lines.
func (l RunLog) Tail(n int) ([]string, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	lines := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, sc.Err()
}
