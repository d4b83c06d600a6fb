package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pbaille/witness/internal/domain"
	"github.com/pbaille/witness/internal/extract"
	"go.uber.org/zap"
)

// DocExt is the extension of field documents.
const DocExt = ".tid"

// Scanner walks a corpus directory and merges per-document extractions.
type Scanner struct {
	log *zap.Logger
}

// New creates a Scanner.
func New(log *zap.Logger) *Scanner {
	return &Scanner{log: log}
}

// Scan walks dir recursively, extracts layers from every document, and
// merges them into one observation. Dedup is by exact name across
// documents: color is first-wins in traversal order (lexical, so the result
// is reproducible) and sources accumulate every contributing document.
// Per-document failures are logged and skipped; only a broken walk aborts.
func (s *Scanner) Scan(dir string) (*domain.Observation, error) {
	obs := &domain.Observation{Sources: make(map[string][]string)}
	index := make(map[string]bool)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != DocExt {
			return nil
		}

		doc := path
		if rel, err := filepath.Rel(dir, path); err == nil {
			doc = filepath.ToSlash(rel)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("unreadable document", zap.String("doc", doc), zap.Error(err))
			return nil
		}
		obs.Documents++

		layers, warnings := extract.Extract(string(data))
		for _, w := range warnings {
			s.log.Warn("extraction problem", zap.String("doc", doc), zap.String("detail", w))
		}

		for _, l := range layers {
			if !index[l.Name] {
				index[l.Name] = true
				obs.Layers = append(obs.Layers, l)
			}
			obs.Sources[l.Name] = appendUnique(obs.Sources[l.Name], doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	return obs, nil
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
