package careers

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	markupPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// PlainText strips HTML markup from a rich-text job description.
// Text without markup is returned unchanged.
func PlainText(s string) string {
	if !markupPattern.MatchString(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	doc.Find("br, p, li, div, h1, h2, h3, h4").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return strings.TrimSpace(spacePattern.ReplaceAllString(doc.Text(), " "))
}
