package locale

import "strings"

// WithLocalePath prefixes path with "/{locale}" unless it already carries that
// prefix. Idempotent: applying it to its own output returns the same string.
func WithLocalePath(l Locale, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	prefix := "/" + string(l)
	if path == prefix || strings.HasPrefix(path, prefix+"/") {
		return path
	}
	if path == "/" {
		return prefix
	}
	return prefix + path
}

// ReplaceLocaleInPath swaps a recognized leading locale segment for next, or
// prepends "/{next}" when the path carries no locale prefix. Query strings and
// fragments are the caller's responsibility.
func ReplaceLocaleInPath(pathname string, next Locale) string {
	trimmed := strings.TrimPrefix(pathname, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	if _, ok := Resolve(first); ok {
		if rest == "" {
			return "/" + string(next)
		}
		return "/" + string(next) + "/" + rest
	}
	return WithLocalePath(next, pathname)
}

// SplitLocalePath extracts the leading locale segment from a page path.
// The boolean reports whether the segment was a recognized locale.
func SplitLocalePath(pathname string) (Locale, string, bool) {
	trimmed := strings.TrimPrefix(pathname, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	l, ok := Resolve(first)
	if !ok {
		return Default, pathname, false
	}
	return l, "/" + rest, true
}
