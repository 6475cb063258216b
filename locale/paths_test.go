package locale

import "testing"

func TestWithLocalePath(t *testing.T) {
	cases := []struct {
		locale Locale
		path   string
		want   string
	}{
		{English, "/resources", "/en/resources"},
		{English, "resources", "/en/resources"},
		{Persian, "/chapter/3", "/fa/chapter/3"},
		{Persian, "/", "/fa"},
		{English, "/en", "/en"},
		{English, "/en/resources", "/en/resources"},
		// "/enlightenment" starts with "en" but is not locale-prefixed
		{English, "/enlightenment", "/en/enlightenment"},
	}
	for _, c := range cases {
		if got := WithLocalePath(c.locale, c.path); got != c.want {
			t.Errorf("WithLocalePath(%q, %q) = %q, want %q", c.locale, c.path, got, c.want)
		}
	}
}

func TestWithLocalePathIdempotent(t *testing.T) {
	for _, l := range []Locale{Persian, English} {
		for _, p := range []string{"/", "/resources", "/chapter/3", "/fa/chapter/3", "/en", ""} {
			once := WithLocalePath(l, p)
			twice := WithLocalePath(l, once)
			if once != twice {
				t.Errorf("WithLocalePath(%q, ...) not idempotent on %q: %q != %q", l, p, once, twice)
			}
		}
	}
}

func TestReplaceLocaleInPath(t *testing.T) {
	cases := []struct {
		path string
		next Locale
		want string
	}{
		{"/fa/chapter/3", English, "/en/chapter/3"},
		{"/chapter/3", English, "/en/chapter/3"},
		{"/en/resources", Persian, "/fa/resources"},
		{"/fa", English, "/en"},
		{"/", Persian, "/fa"},
	}
	for _, c := range cases {
		if got := ReplaceLocaleInPath(c.path, c.next); got != c.want {
			t.Errorf("ReplaceLocaleInPath(%q, %q) = %q, want %q", c.path, c.next, got, c.want)
		}
	}
}

func TestSplitLocalePath(t *testing.T) {
	l, rest, ok := SplitLocalePath("/fa/chapter/3")
	if !ok || l != Persian || rest != "/chapter/3" {
		t.Errorf("SplitLocalePath(/fa/chapter/3) = %v, %q, %v", l, rest, ok)
	}
	if _, _, ok := SplitLocalePath("/chapter/3"); ok {
		t.Error("SplitLocalePath should not recognize /chapter/3")
	}
}
