package e2etest

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindLink finds the anchor element with the given href in the document.
func FindLink(doc *goquery.Document, href string) (*goquery.Selection, error) {
	link := doc.Find(fmt.Sprintf("a[href='%s']", href))
	if link.Length() == 0 {
		return nil, fmt.Errorf("link not found: %s", href)
	}
	return link, nil
}

// VisibleLanguages reports which language codes still have elements classed
// prefix+code in the document, in document order.
func VisibleLanguages(doc *goquery.Document, prefix string) []string {
	seen := map[string]bool{}
	var codes []string
	doc.Find(fmt.Sprintf("[class*='%s']", prefix)).Each(func(_ int, s *goquery.Selection) {
		classes, _ := s.Attr("class")
		for _, class := range strings.Fields(classes) {
			code, ok := strings.CutPrefix(class, prefix)
			if !ok || seen[code] {
				continue
			}
			seen[code] = true
			codes = append(codes, code)
		}
	})
	return codes
}
