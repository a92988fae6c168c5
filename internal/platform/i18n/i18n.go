// Package i18n resolves request languages and builds localized printers.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/benchboard/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	xcatalog "golang.org/x/text/message/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "bb_lang"
)

// Localizer provides translated strings for templ components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Languages negotiates among the embedded catalog locales.
type Languages struct {
	supported []language.Tag
	matcher   language.Matcher
	catalog   xcatalog.Catalog
}

// Load builds Languages from the embedded catalogs.
func Load() (*Languages, error) {
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, err
	}
	return FromBundle(bundle)
}

// FromBundle builds Languages from a loaded catalog bundle. The base locale
// is always listed first so the matcher falls back to it.
func FromBundle(bundle *catalog.Bundle) (*Languages, error) {
	cat, err := bundle.Catalog()
	if err != nil {
		return nil, err
	}
	supported := []language.Tag{language.MustParse(catalog.BaseLocale)}
	for _, locale := range bundle.Locales() {
		if locale == catalog.BaseLocale {
			continue
		}
		supported = append(supported, language.MustParse(locale))
	}
	return &Languages{
		supported: supported,
		matcher:   language.NewMatcher(supported),
		catalog:   cat,
	}, nil
}

// Supported returns the supported tags, base locale first.
func (l *Languages) Supported() []language.Tag {
	return append([]language.Tag(nil), l.supported...)
}

// Default returns the base locale tag.
func (l *Languages) Default() language.Tag {
	return l.supported[0]
}

// Match returns the best supported tag for the given preferences.
func (l *Languages) Match(preferred ...language.Tag) language.Tag {
	if len(preferred) == 0 {
		return l.Default()
	}
	_, index, confidence := l.matcher.Match(preferred...)
	if confidence == language.No {
		return l.Default()
	}
	return l.supported[index]
}

// Parse matches a single raw tag, reporting false when it is unparsable.
func (l *Languages) Parse(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return l.Default(), false
	}
	return l.Match(tag), true
}

// Resolve picks the request language from the lang query parameter, then the
// language cookie, then Accept-Language. The bool reports whether the query
// parameter chose the language and should be persisted.
func (l *Languages) Resolve(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return l.Default(), false
	}
	if raw := strings.TrimSpace(r.URL.Query().Get(LangParam)); raw != "" {
		if tag, ok := l.Parse(raw); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := l.Parse(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return l.Match(tags...), false
		}
	}
	return l.Default(), false
}

// Printer returns a message printer for tag backed by the embedded catalogs.
func (l *Languages) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}

// SetCookie persists the selected language on the response.
func SetCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// T returns a translated string, or the key itself without a localizer.
func T(loc Localizer, key string, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	return key
}
