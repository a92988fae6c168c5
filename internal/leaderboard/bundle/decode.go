package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format identifies a bundle encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatScript Format = "script"
)

// Decode decodes data in the given format.
func Decode(format Format, data []byte) (Bundle, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	case FormatScript:
		return DecodeScript(data)
	default:
		return Bundle{}, fmt.Errorf("unsupported bundle format %q", format)
	}
}

// DecodeJSON decodes a JSON bundle.
func DecodeJSON(data []byte) (Bundle, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return Bundle{}, fmt.Errorf("decode json bundle: %w", err)
	}
	return FromTree(tree)
}

// DecodeYAML decodes a YAML bundle.
func DecodeYAML(data []byte) (Bundle, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return Bundle{}, fmt.Errorf("decode yaml bundle: %w", err)
	}
	return FromTree(tree)
}

// FromTree builds a bundle from a generic decoded document.
//
// Only the top-level shape is enforced. Everything below it is read
// leniently: missing or mistyped fields become zero values.
func FromTree(tree any) (Bundle, error) {
	root, ok := asMap(tree)
	if !ok {
		return Bundle{}, fmt.Errorf("bundle root must be an object, got %T", tree)
	}

	var (
		out       = Empty()
		sawResult bool
		sawScore  bool
	)
	type pendingEntry struct {
		dataset, index        int
		resolved, score       float64
		hasResolved, hasScore bool
	}
	var pending []pendingEntry

	for di, rawDataset := range asSlice(root["leaderboard"]) {
		fields, _ := asMap(rawDataset)
		dataset := Dataset{Name: scalarString(fields["name"])}
		for ei, rawEntry := range asSlice(fields["data"]) {
			entryFields, _ := asMap(rawEntry)
			dataset.Data = append(dataset.Data, Entry{
				Method: scalarString(entryFields["method"]),
				Model:  scalarString(entryFields["model"]),
				Org:    scalarString(entryFields["org"]),
				Site:   scalarString(entryFields["site"]),
				Date:   scalarString(entryFields["date"]),
			})
			p := pendingEntry{dataset: di, index: ei}
			p.resolved, p.hasResolved = scalarFloat(entryFields["resolved"])
			p.score, p.hasScore = scalarFloat(entryFields["score"])
			sawResult = sawResult || p.hasResolved
			sawScore = sawScore || p.hasScore
			pending = append(pending, p)
		}
		out.Leaderboard = append(out.Leaderboard, dataset)
	}

	if !sawResult && sawScore {
		out.Metric = MetricScore
	}
	for _, p := range pending {
		value := p.resolved
		switch {
		case out.Metric == MetricScore && p.hasScore:
			value = p.score
		case out.Metric == MetricResolved && !p.hasResolved && p.hasScore:
			value = p.score
		}
		out.Leaderboard[p.dataset].Data[p.index].Resolved = value
	}

	for _, rawSection := range asSlice(root["sections"]) {
		fields, _ := asMap(rawSection)
		section := Section{
			Title:    scalarString(fields["title"]),
			Subtitle: scalarString(fields["subtitle"]),
		}
		for _, rawBlock := range asSlice(fields["content"]) {
			blockFields, _ := asMap(rawBlock)
			section.Content = append(section.Content, blockFromFields(blockFields))
		}
		out.Sections = append(out.Sections, section)
	}
	return out, nil
}

func blockFromFields(fields map[string]any) Block {
	tag, _ := fields["type"].(string)
	content, ok := fields["content"].(string)
	if !ok {
		return Omitted{Type: tag}
	}
	return NewBlock(tag, content)
}

// Diagnose lists the blocks that will not render as authored.
func Diagnose(b Bundle) []string {
	var out []string
	for si, section := range b.Sections {
		for bi, block := range section.Content {
			switch v := block.(type) {
			case Unknown:
				out = append(out, fmt.Sprintf("section=%d block=%d unknown type %q rendered as text", si, bi, v.Type))
			case Omitted:
				out = append(out, fmt.Sprintf("section=%d block=%d type %q has non-string content; skipped", si, bi, v.Type))
			}
		}
	}
	return out
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func asSlice(value any) []any {
	items, _ := value.([]any)
	return items
}

// scalarString renders strings and numbers as text; anything else is empty.
func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return FormatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.Equal(v.Truncate(24 * time.Hour)) {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	default:
		return ""
	}
}

// scalarFloat reads a finite number. NaN and infinities count as absent.
func scalarFloat(value any) (float64, bool) {
	f, ok := anyFloat(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func anyFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FormatNumber renders a number without a trailing fraction for whole values.
func FormatNumber(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "--"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
