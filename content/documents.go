package content

import "github.com/whatisrealfreedom/religion-and-freedom-sub000/locale"

// Document is one downloadable PDF. Files live under static/pdfs and are
// served directly by the static route; this catalog only describes them.
type Document struct {
	Slug   string
	File   string
	Pages  int
	Titles map[locale.Locale]string
}

var documents = []Document{
	{
		Slug:  "full-book",
		File:  "religion-and-freedom.pdf",
		Pages: 214,
		Titles: map[locale.Locale]string{
			locale.Persian: "کتاب کامل: دین و آزادی",
			locale.English: "Full book: Religion and Freedom",
		},
	},
	{
		Slug:  "summary",
		File:  "real-freedom-summary.pdf",
		Pages: 18,
		Titles: map[locale.Locale]string{
			locale.Persian: "خلاصهٔ نظریهٔ آزادی واقعی",
			locale.English: "Summary of the real-freedom theory",
		},
	},
}

// DocumentView is the list shape for one PDF with a localized title.
type DocumentView struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Pages int    `json:"pages"`
}

// Documents lists the PDF catalog with titles for l.
func Documents(l locale.Locale) []DocumentView {
	out := make([]DocumentView, 0, len(documents))
	for _, d := range documents {
		title, ok := d.Titles[l]
		if !ok {
			title = d.Titles[locale.Persian]
		}
		out = append(out, DocumentView{
			Slug:  d.Slug,
			Title: title,
			URL:   "/static/pdfs/" + d.File,
			Pages: d.Pages,
		})
	}
	return out
}
