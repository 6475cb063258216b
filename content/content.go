// Package content serves the static book: bilingual markdown chapters
// rendered to sanitized HTML, and the downloadable PDF catalog.
package content

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"
)

//go:embed chapters/fa/*.md chapters/en/*.md
var chapterFS embed.FS

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

// Chapter describes one chapter of the book. Content lives in
// chapters/{locale}/{slug}.md; titles are localized here.
type Chapter struct {
	Slug   string
	Order  int
	Titles map[locale.Locale]string
}

// chapters is the canonical reading order.
var chapters = []Chapter{
	{
		Slug:  "what-is-real-freedom",
		Order: 1,
		Titles: map[locale.Locale]string{
			locale.Persian: "آزادی واقعی چیست؟",
			locale.English: "What Is Real Freedom?",
		},
	},
	{
		Slug:  "property-and-liberty",
		Order: 2,
		Titles: map[locale.Locale]string{
			locale.Persian: "مالکیت و آزادی",
			locale.English: "Property and Liberty",
		},
	},
	{
		Slug:  "religion-and-the-state",
		Order: 3,
		Titles: map[locale.Locale]string{
			locale.Persian: "دین و دولت",
			locale.English: "Religion and the State",
		},
	},
}

// ChapterSummary is the list-view shape for one chapter.
type ChapterSummary struct {
	Slug  string `json:"slug"`
	Order int    `json:"order"`
	Title string `json:"title"`
}

// ChapterView is the detail-view shape: summary plus rendered body.
type ChapterView struct {
	ChapterSummary
	HTML string `json:"html"`
}

// ErrChapterNotFound is returned for slugs outside the catalog.
var ErrChapterNotFound = fmt.Errorf("chapter not found")

// Chapters lists the catalog in reading order with titles for l.
func Chapters(l locale.Locale) []ChapterSummary {
	out := make([]ChapterSummary, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, summary(ch, l))
	}
	return out
}

// ChapterBySlug renders one chapter for l. The markdown source is trusted
// (it ships with the binary) but still passes through the same sanitizer as
// user content so the two pipelines cannot drift apart.
func ChapterBySlug(slug string, l locale.Locale) (ChapterView, error) {
	for _, ch := range chapters {
		if ch.Slug != slug {
			continue
		}
		src, err := chapterFS.ReadFile("chapters/" + string(l) + "/" + slug + ".md")
		if err != nil {
			// Chapters are translated Persian-first; fall back like the
			// translation tables do.
			src, err = chapterFS.ReadFile("chapters/fa/" + slug + ".md")
			if err != nil {
				return ChapterView{}, fmt.Errorf("read chapter %s: %w", slug, err)
			}
		}
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return ChapterView{}, fmt.Errorf("render chapter %s: %w", slug, err)
		}
		return ChapterView{
			ChapterSummary: summary(ch, l),
			HTML:           string(policy.SanitizeBytes(buf.Bytes())),
		}, nil
	}
	return ChapterView{}, ErrChapterNotFound
}

// ChapterCount returns the size of the catalog, used by the achievements
// summary.
func ChapterCount() int { return len(chapters) }

// ValidChapterSlug reports whether slug names a catalog chapter.
func ValidChapterSlug(slug string) bool {
	for _, ch := range chapters {
		if ch.Slug == slug {
			return true
		}
	}
	return false
}

func summary(ch Chapter, l locale.Locale) ChapterSummary {
	title, ok := ch.Titles[l]
	if !ok {
		title = ch.Titles[locale.Persian]
	}
	return ChapterSummary{Slug: ch.Slug, Order: ch.Order, Title: title}
}
