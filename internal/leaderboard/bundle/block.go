package bundle

import (
	"encoding/json"
	"strings"
)

// Block tags as they appear on the wire.
const (
	TagImage    = "img"
	TagText     = "text"
	TagRichText = "rich-text"
	TagCode     = "code"
)

// Block is one typed unit of section content.
//
// The set of variants is closed: Image, Text, RichText, Code, Unknown and
// Omitted are the only implementations.
type Block interface {
	// Tag returns the wire tag the block was decoded from.
	Tag() string
	isBlock()
}

// Image displays the image found at URL.
type Image struct {
	URL string
}

// Text is a plain paragraph; its content is never interpreted as markup.
type Text struct {
	Text string
}

// RichText is trusted HTML injected without escaping.
type RichText struct {
	HTML string
}

// Code is source text shown verbatim in a fixed-width block.
type Code struct {
	Source string
}

// Unknown carries a block whose tag is not recognised. It renders as Text.
type Unknown struct {
	Type    string
	Content string
}

// Omitted is a block whose content was not a string. It renders nothing.
type Omitted struct {
	Type string
}

func (Image) Tag() string     { return TagImage }
func (Text) Tag() string      { return TagText }
func (RichText) Tag() string  { return TagRichText }
func (Code) Tag() string      { return TagCode }
func (b Unknown) Tag() string { return b.Type }
func (b Omitted) Tag() string { return b.Type }
func (Image) isBlock()        {}
func (Text) isBlock()         {}
func (RichText) isBlock()     {}
func (Code) isBlock()         {}
func (Unknown) isBlock()      {}
func (Omitted) isBlock()      {}

// blockConstructors maps each recognised tag to its variant.
var blockConstructors = map[string]func(content string) Block{
	TagImage:    func(content string) Block { return Image{URL: content} },
	TagText:     func(content string) Block { return Text{Text: content} },
	TagRichText: func(content string) Block { return RichText{HTML: content} },
	TagCode:     func(content string) Block { return Code{Source: content} },
}

// NewBlock builds the variant for tag. Unrecognised tags yield Unknown.
func NewBlock(tag string, content string) Block {
	build, ok := blockConstructors[tag]
	if !ok {
		return Unknown{Type: tag, Content: content}
	}
	return build(content)
}

// KnownTag reports whether tag maps to a dedicated variant.
func KnownTag(tag string) bool {
	_, ok := blockConstructors[tag]
	return ok
}

// BlockContent returns the string content of b and whether it has any.
func BlockContent(b Block) (string, bool) {
	switch v := b.(type) {
	case Image:
		return v.URL, true
	case Text:
		return v.Text, true
	case RichText:
		return v.HTML, true
	case Code:
		return v.Source, true
	case Unknown:
		return v.Content, true
	default:
		return "", false
	}
}

type wireBlock struct {
	Type    string  `json:"type"`
	Content *string `json:"content"`
}

type wireSection struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
	Content  []wireBlock `json:"content"`
}

// MarshalJSON encodes the section in the bundle wire shape.
func (s Section) MarshalJSON() ([]byte, error) {
	out := wireSection{
		Title:    s.Title,
		Subtitle: s.Subtitle,
		Content:  make([]wireBlock, 0, len(s.Content)),
	}
	for _, block := range s.Content {
		if block == nil {
			continue
		}
		wb := wireBlock{Type: strings.TrimSpace(block.Tag())}
		if content, ok := BlockContent(block); ok {
			wb.Content = &content
		}
		out.Content = append(out.Content, wb)
	}
	return json.Marshal(out)
}
