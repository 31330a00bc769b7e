package i18n

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips the markup upstream descriptions carry and collapses
// whitespace. Line breaks become spaces.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("br").ReplaceWithHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}
