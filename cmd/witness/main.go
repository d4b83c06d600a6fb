package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pbaille/witness/internal/commentary"
	"github.com/pbaille/witness/internal/diagram"
	"github.com/pbaille/witness/internal/domain"
	"github.com/pbaille/witness/internal/growth"
	"github.com/pbaille/witness/internal/history"
	"github.com/pbaille/witness/internal/ledger"
	"github.com/pbaille/witness/internal/render"
	"github.com/pbaille/witness/internal/scan"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultCorpus  = "."
	defaultHistory = "growth"

	timelineFile = "growth-timeline.svg"
	ringsFile    = "growth-rings.svg"
)

var debug bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "witness",
		Short: "Growth witness for a field of layered documents",
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(visualizeCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if debug {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}

func openLedger(path string) (*ledger.Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	return ledger.New(path)
}

func runCmd() *cobra.Command {
	var target, out, dbPath string
	var noCommentary bool

	cmd := &cobra.Command{
		Use:   "run [corpus] [history]",
		Short: "Scan the corpus, record a snapshot, render growth artifacts",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, histDir := defaultCorpus, defaultHistory
			if len(args) > 0 {
				corpus = args[0]
			}
			if len(args) > 1 {
				histDir = args[1]
			}

			log := newLogger()
			defer log.Sync()

			obs, err := scan.New(log).Scan(corpus)
			if err != nil {
				return err
			}

			store := history.New(histDir, log)
			prev, err := store.LoadLatest()
			if err != nil {
				var corrupt *domain.CorruptSnapshotError
				if !errors.As(err, &corrupt) {
					return err
				}
				// Favor a fresh snapshot over blocking on corrupt history.
				log.Warn("latest snapshot unreadable, treating as genesis",
					zap.String("path", corrupt.Path), zap.Error(corrupt.Err))
				prev = nil
			}

			report := growth.Compute(prev, obs)
			now := time.Now()
			snap := &domain.Snapshot{
				Timestamp: now.Format(time.RFC3339),
				Date:      now.Format("2006-01-02"),
				Layers:    obs.Layers,
				Sources:   obs.Sources,
			}
			text := growth.FormatReport(snap.Date, report, obs)

			if report.CurrentCount == 0 && obs.Documents > 0 {
				log.Warn("no layers extracted from a non-empty corpus",
					zap.Int("documents", obs.Documents))
			}
			if report.Delta < 0 {
				log.Warn("layer count shrank; possible extraction regression",
					zap.Int("delta", report.Delta))
			}

			if err := store.Write(snap, text); err != nil {
				return err
			}

			if dbPath == "" {
				dbPath = filepath.Join(histDir, "witness.db")
			}
			if led, err := openLedger(dbPath); err != nil {
				log.Warn("run ledger unavailable", zap.Error(err))
			} else {
				if _, err := led.Record(snap.Date, corpus, report); err != nil {
					log.Warn("run ledger write failed", zap.Error(err))
				}
				led.Close()
			}

			if out == "" {
				out = histDir
			}
			full, err := store.LoadAll()
			if err != nil {
				return err
			}
			if err := writeArtifact(filepath.Join(out, timelineFile), full, render.Timeline); err != nil {
				return err
			}
			if err := writeArtifact(filepath.Join(out, ringsFile), full, render.Rings); err != nil {
				return err
			}

			if target != "" {
				if err := diagram.Update(target, obs.Layers); err != nil {
					return err
				}
			}

			fmt.Println(text)

			if !noCommentary {
				emitCommentary(log, histDir, snap, text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "master document whose embedded diagram is refreshed")
	cmd.Flags().StringVar(&out, "out", "", "directory for visualization artifacts (default: history dir)")
	cmd.Flags().StringVar(&dbPath, "db", "", "run ledger path (default: <history>/witness.db)")
	cmd.Flags().BoolVar(&noCommentary, "no-commentary", false, "skip AI commentary")
	return cmd
}

// emitCommentary runs the opaque post-processing hook. Never fatal.
func emitCommentary(log *zap.Logger, histDir string, snap *domain.Snapshot, report string) {
	c, err := commentary.New()
	if err != nil {
		log.Info("commentary skipped", zap.Error(err))
		return
	}

	blob, err := c.Comment(snap, report)
	if err != nil {
		log.Warn("commentary failed", zap.Error(err))
		return
	}

	path := filepath.Join(histDir, snap.Date+"-commentary.txt")
	if err := os.WriteFile(path, []byte(blob+"\n"), 0644); err != nil {
		log.Warn("commentary write failed", zap.Error(err))
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [corpus]",
		Short: "Print the layers declared in the corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus := defaultCorpus
			if len(args) > 0 {
				corpus = args[0]
			}

			log := newLogger()
			defer log.Sync()

			obs, err := scan.New(log).Scan(corpus)
			if err != nil {
				return err
			}

			if len(obs.Layers) == 0 {
				fmt.Println("# No architecture layers found")
				fmt.Println("# Add layers in YAML format:")
				fmt.Println("# ```yaml")
				fmt.Println("# layers:")
				fmt.Println("#   - {name: \"Layer Name\", color: \"#333\"}")
				fmt.Println("# ```")
				return nil
			}

			out, err := yaml.Marshal(struct {
				Layers []domain.Layer `yaml:"layers"`
			}{obs.Layers})
			if err != nil {
				return fmt.Errorf("marshal layers: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func visualizeCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "visualize [history] [kind]",
		Short: "Render growth artifacts from the snapshot history",
		Long:  "Kind is one of: timeline, rings, all (default timeline).",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			histDir, kind := defaultHistory, "timeline"
			if len(args) > 0 {
				histDir = args[0]
			}
			if len(args) > 1 {
				kind = args[1]
			}

			log := newLogger()
			defer log.Sync()

			full, err := history.New(histDir, log).LoadAll()
			if err != nil {
				return err
			}

			if out == "" {
				out = histDir
			}
			if err := os.MkdirAll(out, 0755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			var paths []string
			switch kind {
			case "timeline":
				paths = append(paths, filepath.Join(out, timelineFile))
				if err := writeArtifact(paths[0], full, render.Timeline); err != nil {
					return err
				}
			case "rings":
				paths = append(paths, filepath.Join(out, ringsFile))
				if err := writeArtifact(paths[0], full, render.Rings); err != nil {
					return err
				}
			case "all":
				tp := filepath.Join(out, timelineFile)
				if err := writeArtifact(tp, full, render.Timeline); err != nil {
					return err
				}
				rp := filepath.Join(out, ringsFile)
				if err := writeArtifact(rp, full, render.Rings); err != nil {
					return err
				}
				paths = append(paths, tp, rp)
			default:
				return fmt.Errorf("unknown artifact kind %q (want timeline, rings or all)", kind)
			}

			for _, p := range paths {
				fmt.Printf("Generated: %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output directory (default: history dir)")
	return cmd
}

func updateCmd() *cobra.Command {
	var corpus string

	cmd := &cobra.Command{
		Use:   "update <target>",
		Short: "Regenerate the embedded diagram in the master document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if corpus == "" {
				corpus = filepath.Dir(target)
			}

			log := newLogger()
			defer log.Sync()

			obs, err := scan.New(log).Scan(corpus)
			if err != nil {
				return err
			}
			if len(obs.Layers) == 0 {
				log.Warn("no layers found, using placeholder stack")
			}

			if err := diagram.Update(target, obs.Layers); err != nil {
				return err
			}

			fmt.Printf("Updated diagram in %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&corpus, "corpus", "", "corpus directory (default: target's directory)")
	return cmd
}

func runsCmd() *cobra.Command {
	var limit int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs [history]",
		Short: "List recent witness runs from the ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			histDir := defaultHistory
			if len(args) > 0 {
				histDir = args[0]
			}
			if dbPath == "" {
				dbPath = filepath.Join(histDir, "witness.db")
			}

			led, err := ledger.New(dbPath)
			if err != nil {
				return err
			}
			defer led.Close()

			runs, err := led.ListRuns(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded yet. Use 'witness run' to create one.")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%s  %s  total=%d delta=%+d rate=%.2f%%  %s\n",
					r.ID[:8], r.Date, r.Total, r.Delta, r.GrowthRate*100,
					r.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().StringVar(&dbPath, "db", "", "run ledger path (default: <history>/witness.db)")
	return cmd
}

func writeArtifact(path string, full []domain.Snapshot, renderFn func(io.Writer, []domain.Snapshot)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	renderFn(f, full)
	return nil
}
