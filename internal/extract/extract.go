package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pbaille/witness/internal/domain"
	"gopkg.in/yaml.v3"
)

// gateWords mark a document as participating in the field. The check is a
// case-insensitive substring test over the whole body; documents without
// either word contribute no layers regardless of content.
var gateWords = []string{"opic", "architecture"}

var (
	blockRe = regexp.MustCompile("(?s)```yaml\\s+(layers:.*?)```")
	boldRe  = regexp.MustCompile(`\*\s+\*\*([^*]+)\*\*`)
)

// layersBlock is the shape of a structured declaration block.
type layersBlock struct {
	Layers []struct {
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
	} `yaml:"layers"`
}

// Participates reports whether a document body declares itself part of the field.
func Participates(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range gateWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Extract pulls layer declarations out of one document body. Two notations
// are recognized and unioned: fenced yaml blocks of {name, color} records,
// and bold spans inside bulleted list items (name only). Duplicates within
// the document collapse to the first occurrence. Malformed blocks contribute
// zero layers and come back as warnings instead of aborting.
func Extract(text string) ([]domain.Layer, []string) {
	if !Participates(text) {
		return nil, nil
	}

	var layers []domain.Layer
	var warnings []string
	seen := make(map[string]bool)

	add := func(name, color string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		layers = append(layers, domain.Layer{Name: name, Color: strings.TrimSpace(color)})
	}

	for _, m := range blockRe.FindAllStringSubmatch(text, -1) {
		var block layersBlock
		if err := yaml.Unmarshal([]byte(m[1]), &block); err != nil {
			warnings = append(warnings, fmt.Sprintf("malformed layers block: %v", err))
			continue
		}
		for _, d := range block.Layers {
			add(d.Name, d.Color)
		}
	}

	for _, m := range boldRe.FindAllStringSubmatch(text, -1) {
		add(m[1], "")
	}

	return layers, warnings
}
