package diagram

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pbaille/witness/internal/domain"
	"github.com/pbaille/witness/internal/render"
)

// The marker region is the architecture heading followed by an svg block.
// Everything outside the region is left byte-for-byte untouched.
var (
	regionRe  = regexp.MustCompile(`(?s)(!! Architecture Diagram\n\n)<svg.*?</svg>`)
	headingRe = regexp.MustCompile(`!! Architecture Diagram\n\n`)
)

// placeholderLayers keep the diagram renderable when a scan finds nothing.
var placeholderLayers = []domain.Layer{
	{Name: "ΣBody Ports", Color: "#333"},
	{Name: "ζ-Engine Kernel", Color: "#444"},
	{Name: "Φ-Ledger (Ethics + Consensus)", Color: "#555"},
	{Name: "ΣLink Bus (Network Resonance)", Color: "#666"},
}

// Update regenerates the embedded architecture diagram inside the target
// document from the current layer set. A missing document or a document
// without the diagram marker is a TargetNotFoundError: the authoring
// contract is broken and silently skipping would hide that.
func Update(target string, layers []domain.Layer) error {
	if len(layers) == 0 {
		layers = placeholderLayers
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.TargetNotFoundError{Target: target, Reason: "document does not exist"}
		}
		return fmt.Errorf("read target: %w", err)
	}
	content := string(data)

	svg := render.Diagram(layers)
	switch {
	case regionRe.MatchString(content):
		content = regionRe.ReplaceAllStringFunc(content, func(m string) string {
			return regionRe.FindStringSubmatch(m)[1] + svg
		})
	case headingRe.MatchString(content):
		// Heading exists but no diagram yet: insert one after it.
		content = headingRe.ReplaceAllStringFunc(content, func(m string) string {
			return m + svg + "\n\n"
		})
	default:
		return &domain.TargetNotFoundError{Target: target, Reason: "no architecture diagram marker"}
	}

	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return fmt.Errorf("write target: %w", err)
	}
	return nil
}
