package growth

import (
	"fmt"
	"math"
	"strings"

	"github.com/pbaille/witness/internal/domain"
)

// Compute derives the growth report from the previous snapshot (nil on the
// first-ever run) and the current observation. Pure: no I/O, no clock.
// A rename is indistinguishable from one deletion plus one addition; that
// approximation is kept deliberately, no similarity matching happens here.
func Compute(prev *domain.Snapshot, obs *domain.Observation) domain.GrowthReport {
	rep := domain.GrowthReport{CurrentCount: len(obs.Layers)}

	prevNames := make(map[string]bool)
	if prev != nil {
		rep.PreviousCount = len(prev.Layers)
		for _, l := range prev.Layers {
			prevNames[l.Name] = true
		}
	}

	rep.Delta = rep.CurrentCount - rep.PreviousCount
	if rep.PreviousCount > 0 {
		rep.GrowthRate = math.Abs(float64(rep.Delta)) / float64(rep.PreviousCount)
	}

	for _, l := range obs.Layers {
		if !prevNames[l.Name] {
			rep.NewLayerNames = append(rep.NewLayerNames, l.Name)
		}
	}

	return rep
}

// FormatReport renders the human-readable report written next to each
// snapshot. Suspicious states (empty scan of a non-empty corpus, shrinking
// layer count) surface here as warnings, never as errors.
func FormatReport(date string, rep domain.GrowthReport, obs *domain.Observation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Field Growth Report — %s\n", date)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total layers: %d\n", rep.CurrentCount)
	fmt.Fprintf(&b, "Delta: %+d\n", rep.Delta)
	fmt.Fprintf(&b, "Growth rate: %.2f%%\n", rep.GrowthRate*100)

	if rep.CurrentCount == 0 && obs.Documents > 0 {
		b.WriteString("\nWarning: no layers extracted from a non-empty corpus.\n")
	}
	if rep.Delta < 0 {
		b.WriteString("\nWarning: layer count shrank since the previous snapshot.\n")
	}

	if len(rep.NewLayerNames) > 0 {
		b.WriteString("\nNew layers detected:\n")
		for _, name := range rep.NewLayerNames {
			fmt.Fprintf(&b, "  • %s\n", name)
			if srcs := obs.Sources[name]; len(srcs) > 0 {
				fmt.Fprintf(&b, "    → from: %s\n", strings.Join(srcs, ", "))
			}
		}
	}

	return b.String()
}
