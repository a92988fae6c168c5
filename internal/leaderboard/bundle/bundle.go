// Package bundle defines the leaderboard data bundle and its decoders.
//
// A bundle carries two collections: the ranked leaderboard datasets and the
// content sections shown under the table. Bundles are decoded once and then
// treated as immutable; a reload replaces the whole value.
package bundle

// Metric names the numeric column carried by leaderboard entries.
type Metric string

const (
	// MetricResolved is the percentage of benchmark instances resolved.
	MetricResolved Metric = "resolved"
	// MetricScore is the generic score column used by older bundles.
	MetricScore Metric = "score"
)

// Bundle is one decoded leaderboard data bundle.
type Bundle struct {
	Leaderboard []Dataset `json:"leaderboard"`
	Sections    []Section `json:"sections"`
	// Metric is the numeric column chosen for the whole bundle.
	Metric Metric `json:"-"`
}

// Dataset is a named, ordered collection of entries.
type Dataset struct {
	Name string  `json:"name"`
	Data []Entry `json:"data"`
}

// Entry is one ranked row. Rank is derived from its position in the dataset.
type Entry struct {
	Method string `json:"method"`
	Model  string `json:"model"`
	// Resolved holds the canonical numeric value regardless of whether the
	// bundle called it resolved or score.
	Resolved float64 `json:"resolved"`
	Org      string  `json:"org"`
	Site     string  `json:"site"`
	Date     string  `json:"date"`
}

// Section is a titled group of content blocks.
type Section struct {
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Content  []Block `json:"-"`
}

// Empty returns a bundle with no datasets and no sections.
func Empty() Bundle {
	return Bundle{Metric: MetricResolved}
}

// IsEmpty reports whether the bundle has nothing to display.
func (b Bundle) IsEmpty() bool {
	return len(b.Leaderboard) == 0 && len(b.Sections) == 0
}

// MetricOrDefault returns the bundle metric, defaulting to resolved.
func (b Bundle) MetricOrDefault() Metric {
	if b.Metric == "" {
		return MetricResolved
	}
	return b.Metric
}
