package adapter

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractText converts an HTML fragment to plain text: tags are dropped,
// entities decoded, and whitespace collapsed. Input that fails to parse is
// returned with whitespace collapsed only.
func extractText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return collapseSpace(content)
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
