package bundle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const appDataTarget = "window.__APP_DATA__"

// scriptStatement matches the start of a top-level assignment in a legacy
// data.js bundle: either a variable declaration or the app data assignment.
var scriptStatement = regexp.MustCompile(`(?m)^[ \t]*(?:(?:var|let|const)[ \t]+([A-Za-z_$][\w$]*)|window\.__APP_DATA__)[ \t]*=[ \t]*`)

// DecodeScript decodes a legacy data.js bundle.
//
// The script is expected to declare its collections with var/let/const and
// finally assign window.__APP_DATA__. Every right-hand side must be an object
// or array literal, which is read as YAML flow syntax; bare identifiers that
// name earlier declarations are substituted in place. Comments are dropped,
// string literals in any JS quoting are re-quoted for YAML, and top-level
// semicolons end a statement like a newline does.
func DecodeScript(data []byte) (Bundle, error) {
	source, err := normalizeScript(string(data))
	if err != nil {
		return Bundle{}, err
	}
	matches := scriptStatement.FindAllStringSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return Bundle{}, ErrNoAppData
	}

	declared := map[string]*yaml.Node{}
	var appData *yaml.Node
	for i, match := range matches {
		end := len(source)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		expr := strings.TrimRight(strings.TrimSpace(source[match[1]:end]), ";")
		node, err := parseScriptExpr(expr)
		if err != nil {
			name := appDataTarget
			if match[2] >= 0 {
				name = source[match[2]:match[3]]
			}
			return Bundle{}, fmt.Errorf("parse %s: %w", name, err)
		}
		node = substituteIdentifiers(node, declared)
		if match[2] < 0 {
			appData = node
			continue
		}
		declared[source[match[2]:match[3]]] = node
	}
	if appData == nil {
		return Bundle{}, ErrNoAppData
	}

	var tree any
	if err := appData.Decode(&tree); err != nil {
		return Bundle{}, fmt.Errorf("decode %s: %w", appDataTarget, err)
	}
	return FromTree(tree)
}

// normalizeScript rewrites a script so every statement starts on its own line
// and every string literal is a double-quoted YAML scalar.
func normalizeScript(source string) (string, error) {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case strings.HasPrefix(source[i:], "//"):
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				i = len(source)
				continue
			}
			i += end
		case strings.HasPrefix(source[i:], "/*"):
			end := strings.Index(source[i+2:], "*/")
			if end < 0 {
				return "", fmt.Errorf("unterminated comment at offset %d", i)
			}
			b.WriteByte(' ')
			i += end + 4
		case c == '"' || c == '\'' || c == '`':
			value, n, err := readStringLiteral(source[i:])
			if err != nil {
				return "", fmt.Errorf("string at offset %d: %w", i, err)
			}
			b.WriteString(strconv.Quote(value))
			i += n
		case c == ';' && depth <= 0:
			b.WriteByte('\n')
			i++
		default:
			switch c {
			case '{', '[', '(':
				depth++
			case '}', ']', ')':
				depth--
			}
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

// readStringLiteral decodes the JS string literal at the start of s and
// reports how many bytes it spans.
func readStringLiteral(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); {
		c := s[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case c == '\n' && quote != '`':
			return "", 0, fmt.Errorf("unterminated string")
		case quote == '`' && strings.HasPrefix(s[i:], "${"):
			return "", 0, fmt.Errorf("template substitutions are not supported")
		case c == '\\':
			n, err := readEscape(s[i:], &b)
			if err != nil {
				return "", 0, err
			}
			i += n
		default:
			b.WriteByte(c)
			i++
		}
	}
	return "", 0, fmt.Errorf("unterminated string")
}

// readEscape decodes the escape sequence at the start of s into b.
func readEscape(s string, b *strings.Builder) (int, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("unterminated string")
	}
	switch c := s[1]; c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case '\r':
		if len(s) > 2 && s[2] == '\n' {
			return 3, nil
		}
	case 'x':
		if len(s) < 4 {
			return 0, fmt.Errorf("short \\x escape")
		}
		v, err := strconv.ParseUint(s[2:4], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("bad \\x escape %q", s[:4])
		}
		b.WriteRune(rune(v))
		return 4, nil
	case 'u':
		r, n, err := readUnicodeEscape(s)
		if err != nil {
			return 0, err
		}
		if utf16.IsSurrogate(r) {
			if low, m, err := readUnicodeEscape(s[n:]); err == nil && strings.HasPrefix(s[n:], "\\u") {
				if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
					b.WriteRune(pair)
					return n + m, nil
				}
			}
		}
		b.WriteRune(r)
		return n, nil
	default:
		r, size := utf8.DecodeRuneInString(s[1:])
		b.WriteRune(r)
		return 1 + size, nil
	}
	return 2, nil
}

// readUnicodeEscape reads \uXXXX or \u{X...} at the start of s.
func readUnicodeEscape(s string) (rune, int, error) {
	if len(s) < 3 || s[0] != '\\' || s[1] != 'u' {
		return 0, 0, fmt.Errorf("bad \\u escape")
	}
	if s[2] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, fmt.Errorf("unterminated \\u{ escape")
		}
		v, err := strconv.ParseUint(s[3:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0, fmt.Errorf("bad \\u escape %q", s[:end+1])
		}
		return rune(v), end + 1, nil
	}
	if len(s) < 6 {
		return 0, 0, fmt.Errorf("short \\u escape")
	}
	v, err := strconv.ParseUint(s[2:6], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad \\u escape %q", s[:6])
	}
	return rune(v), 6, nil
}

func parseScriptExpr(expr string) (*yaml.Node, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(expr), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	return doc.Content[0], nil
}

// substituteIdentifiers replaces plain scalars naming a declaration with the
// declared node.
func substituteIdentifiers(node *yaml.Node, declared map[string]*yaml.Node) *yaml.Node {
	if node == nil {
		return nil
	}
	if node.Kind == yaml.ScalarNode && node.Style == 0 {
		if target, ok := declared[node.Value]; ok {
			return target
		}
		return node
	}
	for i, child := range node.Content {
		if node.Kind == yaml.MappingNode && i%2 == 0 {
			continue
		}
		node.Content[i] = substituteIdentifiers(child, declared)
	}
	return node
}
