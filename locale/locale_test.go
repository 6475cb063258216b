package locale

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		segment string
		want    Locale
		ok      bool
	}{
		{"fa", Persian, true},
		{"en", English, true},
		{"", Persian, false},
		{"de", Persian, false},
		{"FA", Persian, false},
		{"chapter", Persian, false},
	}
	for _, c := range cases {
		got, ok := Resolve(c.segment)
		if got != c.want || ok != c.ok {
			t.Errorf("Resolve(%q) = %v, %v; want %v, %v", c.segment, got, ok, c.want, c.ok)
		}
	}
}

func TestDirection(t *testing.T) {
	if d := Persian.Direction(); d != "rtl" {
		t.Errorf("Persian direction = %q, want rtl", d)
	}
	if d := English.Direction(); d != "ltr" {
		t.Errorf("English direction = %q, want ltr", d)
	}
}

func TestTranslateHit(t *testing.T) {
	if got := Translate(English, "nav.discussions"); got != "Discussions" {
		t.Errorf("Translate(en, nav.discussions) = %q", got)
	}
	if got := Translate(Persian, "nav.discussions"); got != "گفت‌وگوها" {
		t.Errorf("Translate(fa, nav.discussions) = %q", got)
	}
}

func TestTranslateFallsBackToPersian(t *testing.T) {
	// site.notice has not been translated to English yet.
	want := Translate(Persian, "site.notice")
	if want == "site.notice" {
		t.Fatal("fixture broken: site.notice missing from the Persian table")
	}
	if got := Translate(English, "site.notice"); got != want {
		t.Errorf("Translate(en, site.notice) = %q, want Persian fallback %q", got, want)
	}
}

func TestTranslateUnknownKeyReturnsKey(t *testing.T) {
	for _, key := range []string{"no.such.key", "nav", "nav.discussions.deeper"} {
		if got := Translate(English, key); got != key {
			t.Errorf("Translate(en, %q) = %q, want the key back", key, got)
		}
	}
}
