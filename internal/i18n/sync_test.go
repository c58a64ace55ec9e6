package i18n_test

import (
	"strings"
	"testing"

	"github.com/MattiaMarche/i18n-lite/internal/i18n"
	"github.com/PuerkitoBio/goquery"
)

const syncTestDocument = `<!DOCTYPE html>
<html>
<head><title>Languages</title></head>
<body>
<h1 class="lang-en">Hello</h1>
<p class="lang-en">English paragraph</p>
<h1 class="lang-it">Ciao</h1>
<div class="lang-es"><span>Hola</span></div>
<h1 class="lang-fr">Bonjour</h1>
<h1 class="lang-de">Hallo</h1>
<p class="intro">Untagged content</p>
</body>
</html>`

func parseDoc(t *testing.T, raw string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

func assertCounts(t *testing.T, doc *goquery.Document, want map[string]int) {
	t.Helper()
	for selector, count := range want {
		if got := doc.Find(selector).Length(); got != count {
			t.Errorf("Find(%q).Length() = %d, want %d", selector, got, count)
		}
	}
}

func TestSyncDisplay(t *testing.T) {
	translator := i18n.New(i18n.Options{ClassPrefix: "lang-", QueryLang: "it"})
	doc := parseDoc(t, syncTestDocument)

	translator.SyncDisplay(doc)

	assertCounts(t, doc, map[string]int{
		".lang-en": 0,
		".lang-it": 1,
		".lang-es": 0,
		".lang-fr": 0,
		// Codes outside the supported list are not touched.
		".lang-de": 1,
		".intro":   1,
	})
	// Nested children go with their tagged parent.
	if got := doc.Find("span").Length(); got != 0 {
		t.Errorf("expected nested spanish span to be removed, found %d", got)
	}

	// Running the sync again changes nothing.
	translator.SyncDisplay(doc)
	assertCounts(t, doc, map[string]int{
		".lang-it": 1,
		".lang-de": 1,
		".intro":   1,
	})
}

func TestSyncDisplayWithoutPrefix(t *testing.T) {
	translator := i18n.New(i18n.Options{QueryLang: "it"})
	doc := parseDoc(t, syncTestDocument)

	translator.SyncDisplay(doc)

	assertCounts(t, doc, map[string]int{
		".lang-en": 2,
		".lang-it": 1,
		".lang-es": 1,
		".lang-fr": 1,
		".lang-de": 1,
	})
}

func TestSyncDisplayNilDocument(t *testing.T) {
	translator := i18n.New(i18n.Options{ClassPrefix: "lang-"})
	// Must not panic.
	translator.SyncDisplay(nil)
}

func TestLocalizeHTML(t *testing.T) {
	translator := i18n.New(i18n.Options{ClassPrefix: "lang-", QueryLang: "es"})

	out, err := translator.LocalizeHTML([]byte(syncTestDocument))
	if err != nil {
		t.Fatalf("LocalizeHTML: %v", err)
	}

	html := string(out)
	if !strings.Contains(html, "Hola") {
		t.Errorf("expected output to keep the spanish content, got:\n%s", html)
	}
	for _, gone := range []string{"Hello", "Ciao", "Bonjour"} {
		if strings.Contains(html, gone) {
			t.Errorf("expected output to drop %q, got:\n%s", gone, html)
		}
	}

	doc := parseDoc(t, html)
	assertCounts(t, doc, map[string]int{
		".lang-en": 0,
		".lang-it": 0,
		".lang-es": 1,
		".lang-fr": 0,
		".lang-de": 1,
		".intro":   1,
	})
}

func TestLocalizeHTMLWithoutPrefix(t *testing.T) {
	translator := i18n.New(i18n.Options{QueryLang: "es"})

	out, err := translator.LocalizeHTML([]byte(syncTestDocument))
	if err != nil {
		t.Fatalf("LocalizeHTML: %v", err)
	}

	assertCounts(t, parseDoc(t, string(out)), map[string]int{
		".lang-en": 2,
		".lang-it": 1,
		".lang-es": 1,
		".lang-fr": 1,
		".lang-de": 1,
	})
}
