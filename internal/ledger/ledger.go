package ledger

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/witness/internal/domain"
)

//go:embed schema.sql
var schema string

// Ledger records one row per witness run. Unlike the snapshot store, which
// keeps at most one snapshot per date, the ledger is append-only, so
// same-day re-runs stay observable.
type Ledger struct {
	db *sql.DB
}

// Run is one recorded invocation.
type Run struct {
	ID         string
	Date       string
	CreatedAt  time.Time
	Corpus     string
	Total      int
	Delta      int
	GrowthRate float64
	NewLayers  []string
}

// New opens (and initializes) the ledger at the given path.
func New(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends a run row derived from the growth report.
func (l *Ledger) Record(date, corpus string, rep domain.GrowthReport) (*Run, error) {
	run := &Run{
		ID:         uuid.New().String(),
		Date:       date,
		CreatedAt:  time.Now(),
		Corpus:     corpus,
		Total:      rep.CurrentCount,
		Delta:      rep.Delta,
		GrowthRate: rep.GrowthRate,
		NewLayers:  rep.NewLayerNames,
	}

	_, err := l.db.Exec(
		"INSERT INTO runs (id, date, created_at, corpus, total, delta, growth_rate, new_layers) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Date, run.CreatedAt, run.Corpus, run.Total, run.Delta, run.GrowthRate, strings.Join(run.NewLayers, ","),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (l *Ledger) ListRuns(limit int) ([]Run, error) {
	rows, err := l.db.Query(
		"SELECT id, date, created_at, corpus, total, delta, growth_rate, new_layers FROM runs ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var newLayers string
		if err := rows.Scan(&r.ID, &r.Date, &r.CreatedAt, &r.Corpus, &r.Total, &r.Delta, &r.GrowthRate, &newLayers); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if newLayers != "" {
			r.NewLayers = strings.Split(newLayers, ",")
		}
		runs = append(runs, r)
	}

	return runs, nil
}
