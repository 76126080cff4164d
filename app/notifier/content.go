package notifier

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from post content so notification text stays
// readable on small screens. NGA post bodies mix HTML with BBCode-style
// tags; only the HTML layer is handled here.
func PlainText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return collapseWhitespace(content)
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(" ")
	})

	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
