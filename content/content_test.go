package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"
)

func TestChaptersOrderAndTitles(t *testing.T) {
	fa := Chapters(locale.Persian)
	en := Chapters(locale.English)
	if len(fa) == 0 || len(fa) != len(en) || len(fa) != ChapterCount() {
		t.Fatalf("catalog sizes: fa=%d en=%d count=%d", len(fa), len(en), ChapterCount())
	}
	for i := 1; i < len(fa); i++ {
		if fa[i].Order <= fa[i-1].Order {
			t.Errorf("chapters out of reading order at %d", i)
		}
	}
	if fa[0].Title == en[0].Title {
		t.Error("expected localized titles to differ between fa and en")
	}
}

func TestChapterBySlugRenders(t *testing.T) {
	view, err := ChapterBySlug("what-is-real-freedom", locale.English)
	if err != nil {
		t.Fatalf("ChapterBySlug: %v", err)
	}
	if !strings.Contains(view.HTML, "<h1") {
		t.Errorf("rendered chapter missing heading: %.80s", view.HTML)
	}
	if strings.Contains(view.HTML, "<script") {
		t.Error("sanitizer let a script tag through")
	}
}

func TestChapterBySlugUnknown(t *testing.T) {
	_, err := ChapterBySlug("no-such-chapter", locale.Persian)
	if !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("want ErrChapterNotFound, got %v", err)
	}
}

func TestDocumentsLocalized(t *testing.T) {
	fa := Documents(locale.Persian)
	en := Documents(locale.English)
	if len(fa) == 0 || len(fa) != len(en) {
		t.Fatalf("document catalog sizes: fa=%d en=%d", len(fa), len(en))
	}
	for i := range fa {
		if !strings.HasPrefix(fa[i].URL, "/static/pdfs/") {
			t.Errorf("document %s URL %q outside the static pdf root", fa[i].Slug, fa[i].URL)
		}
		if fa[i].URL != en[i].URL {
			t.Errorf("document %s URL should not vary by locale", fa[i].Slug)
		}
	}
}
