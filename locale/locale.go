package locale

import (
	"embed"
	"encoding/json"
	"strings"
	"sync"
)

// Locale identifies one of the two languages the site is published in.
type Locale string

const (
	Persian Locale = "fa"
	English Locale = "en"

	// Default is the locale every unprefixed or unrecognized path redirects to.
	Default = Persian
)

//go:embed translations/*.json
var translationFS embed.FS

var (
	tables   map[Locale]map[string]any
	loadOnce sync.Once
)

// Resolve maps a URL path segment to a Locale. The second return value is
// false for anything that is not exactly "fa" or "en"; callers are expected
// to redirect to the Default-prefixed path in that case.
func Resolve(segment string) (Locale, bool) {
	switch Locale(segment) {
	case Persian, English:
		return Locale(segment), true
	}
	return Default, false
}

// Direction returns the text direction for the locale.
func (l Locale) Direction() string {
	if l == Persian {
		return "rtl"
	}
	return "ltr"
}

func (l Locale) String() string { return string(l) }

func load() {
	tables = make(map[Locale]map[string]any, 2)
	for _, l := range []Locale{Persian, English} {
		raw, err := translationFS.ReadFile("translations/" + string(l) + ".json")
		if err != nil {
			panic("locale: missing translation table for " + string(l))
		}
		var t map[string]any
		if err := json.Unmarshal(raw, &t); err != nil {
			panic("locale: invalid translation table for " + string(l) + ": " + err.Error())
		}
		tables[l] = t
	}
}

// Table returns the full translation table for a locale, used by the locale
// bundle endpoint so clients can hydrate all copy in one request.
func Table(l Locale) map[string]any {
	loadOnce.Do(load)
	return tables[l]
}

// Translate looks up a dotted key ("auth.verify.subject") in the table for l.
// A key missing from l falls back to the Persian table; a key missing from
// both is returned unchanged. Lookup never fails.
func Translate(l Locale, key string) string {
	loadOnce.Do(load)
	if s, ok := lookup(tables[l], key); ok {
		return s
	}
	if l != Persian {
		if s, ok := lookup(tables[Persian], key); ok {
			return s
		}
	}
	return key
}

func lookup(table map[string]any, key string) (string, bool) {
	node := any(table)
	for _, seg := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		node, ok = m[seg]
		if !ok {
			return "", false
		}
	}
	s, ok := node.(string)
	return s, ok
}
