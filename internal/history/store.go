package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbaille/witness/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Store reads and writes dated snapshots in a history directory. Each date
// owns a file triplet derived from the same in-memory snapshot and report:
// <date>.yaml (primary), <date>.json (secondary), <date>.txt (human report).
// Filenames are ISO dates, so lexical order is chronological order.
type Store struct {
	dir string
	log *zap.Logger
}

// New creates a Store over dir. The directory is created lazily on write.
func New(dir string, log *zap.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Dir returns the history directory.
func (s *Store) Dir() string { return s.dir }

// LoadLatest returns the most recent snapshot, or (nil, nil) when the
// history is empty or absent. A latest file that exists but does not parse
// comes back as a CorruptSnapshotError so the caller can proceed as genesis.
func (s *Store) LoadLatest() (*domain.Snapshot, error) {
	files, err := s.snapshotFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	latest := files[len(files)-1]
	snap, err := readSnapshot(latest)
	if err != nil {
		return nil, &domain.CorruptSnapshotError{Path: latest, Err: err}
	}
	return snap, nil
}

// LoadAll returns every parseable snapshot sorted by date ascending.
// Corrupt files other than the latest are skipped with a warning so one bad
// file cannot block visualization of the rest of the history.
func (s *Store) LoadAll() ([]domain.Snapshot, error) {
	files, err := s.snapshotFiles()
	if err != nil {
		return nil, err
	}

	var history []domain.Snapshot
	for _, f := range files {
		snap, err := readSnapshot(f)
		if err != nil {
			s.log.Warn("skipping unreadable snapshot", zap.String("path", f), zap.Error(err))
			continue
		}
		history = append(history, *snap)
	}
	return history, nil
}

// Write persists the snapshot triplet, overwriting any files already
// recorded for the same date (idempotent same-day re-run).
func (s *Store) Write(snap *domain.Snapshot, report string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	ydata, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path(snap.Date, "yaml"), ydata, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	jdata, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot json: %w", err)
	}
	if err := os.WriteFile(s.path(snap.Date, "json"), jdata, 0644); err != nil {
		return fmt.Errorf("write snapshot json: %w", err)
	}

	if err := os.WriteFile(s.path(snap.Date, "txt"), []byte(report), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func (s *Store) path(date, ext string) string {
	return filepath.Join(s.dir, date+"."+ext)
}

// snapshotFiles lists the primary snapshot files sorted by name, which for
// ISO-dated filenames is oldest first.
func (s *Store) snapshotFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	return files, nil
}

func readSnapshot(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Date == "" {
		snap.Date = strings.TrimSuffix(filepath.Base(path), ".yaml")
	}
	return &snap, nil
}
