// Package catalog loads the embedded UI message catalogs.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds messages per locale.
type Bundle struct {
	locales map[string]map[string]string
}

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/<locale>/<namespace>.yaml file in catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	localeFromPath := path.Base(path.Dir(p))
	namespaceFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if strings.TrimSpace(file.Locale) != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, file.Locale, localeFromPath)
	}
	if strings.TrimSpace(file.Namespace) != namespaceFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", p, file.Namespace, namespaceFromPath)
	}
	if _, err := language.Parse(localeFromPath); err != nil {
		return fmt.Errorf("catalog %s: %w", p, err)
	}

	messages, ok := b.locales[localeFromPath]
	if !ok {
		messages = map[string]string{}
		b.locales[localeFromPath] = messages
	}
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if _, exists := messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, localeFromPath)
		}
		messages[key] = value
	}
	return nil
}

// Locales returns the loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Message returns one message with base-locale fallback.
func (b *Bundle) Message(locale string, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	if value, ok := b.locales[strings.TrimSpace(locale)][key]; ok {
		return value, true
	}
	value, ok := b.locales[BaseLocale][key]
	return value, ok
}

// Catalog builds an x/text catalog with every locale registered. Keys missing
// from a locale are filled from the base locale.
func (b *Bundle) Catalog() (xcatalog.Catalog, error) {
	builder := xcatalog.NewBuilder(xcatalog.Fallback(language.MustParse(BaseLocale)))
	base := b.locales[BaseLocale]
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		for key, fallback := range base {
			value := fallback
			if localized, ok := b.locales[locale][key]; ok {
				value = localized
			}
			if err := builder.SetString(tag, key, escapePercent(value)); err != nil {
				return nil, fmt.Errorf("register %s %s: %w", locale, key, err)
			}
		}
	}
	return builder, nil
}

// escapePercent keeps literal percent signs from being read as verbs.
func escapePercent(value string) string {
	return strings.ReplaceAll(value, "%", "%%")
}
