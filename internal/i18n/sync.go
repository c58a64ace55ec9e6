package i18n

import (
	"bytes"

	"github.com/MattiaMarche/i18n-lite/internal/errors"
	"github.com/PuerkitoBio/goquery"
)

// SyncDisplay removes the elements tagged for languages other than the active
// one. An element is tagged by carrying the class ClassPrefix+code, so with
// prefix "lang-" an Italian-only block is classed "lang-it". Elements of the
// active language and of codes outside the supported list are left alone,
// which also makes the operation idempotent. Without a configured ClassPrefix
// this does nothing.
func (t *Translator) SyncDisplay(doc *goquery.Document) {
	if t.classPrefix == "" || doc == nil {
		return
	}
	for _, lang := range t.languages {
		if lang == t.current {
			continue
		}
		doc.Find("." + t.classPrefix + string(lang)).Remove()
	}
}

// LocalizeHTML parses a complete HTML document, runs SyncDisplay on it and
// serializes it back. The input is returned unchanged alongside the error
// when it cannot be processed.
func (t *Translator) LocalizeHTML(in []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(in))
	if err != nil {
		return in, errors.Wrap(err, "parse document")
	}

	t.SyncDisplay(doc)

	out, err := doc.Html()
	if err != nil {
		return in, errors.Wrap(err, "serialize document")
	}
	return []byte(out), nil
}
