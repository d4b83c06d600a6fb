package domain

// DefaultColor is the neutral fill used when a layer declares no color.
// It is applied at render time; snapshots persist layers as declared.
const DefaultColor = "#333"

// Layer is a named conceptual unit declared somewhere in the corpus.
// Name is the identity key: the same name in two documents is one layer.
type Layer struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Observation is the merged result of one corpus scan: the deduplicated
// layer set in discovery order plus the provenance of every name.
type Observation struct {
	Layers    []Layer
	Sources   map[string][]string
	Documents int
}

// Names returns the observed layer names in discovery order.
func (o *Observation) Names() []string {
	names := make([]string, len(o.Layers))
	for i, l := range o.Layers {
		names[i] = l.Name
	}
	return names
}

// Snapshot is the full layer set recorded at one calendar date.
// Immutable once written; Date is the identity key (one snapshot per date).
type Snapshot struct {
	Timestamp string              `yaml:"timestamp" json:"timestamp"`
	Date      string              `yaml:"date" json:"date"`
	Layers    []Layer             `yaml:"layers" json:"layers"`
	Sources   map[string][]string `yaml:"sources" json:"sources"`
}

// GrowthReport is the derived diff between the previous snapshot and the
// current observation. GrowthRate is abs(Delta)/PreviousCount, 0 on the
// first-ever run.
type GrowthReport struct {
	PreviousCount int
	CurrentCount  int
	Delta         int
	GrowthRate    float64
	NewLayerNames []string
}
