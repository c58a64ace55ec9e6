package i18n

import (
	"net/http"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// NewFromRequest constructs a Translator for an incoming request, filling the
// ambient signals from it: the lang query parameter of the request URL and
// the best Accept-Language entry as the user locale.
func NewFromRequest(r *http.Request, opts Options) *Translator {
	opts.QueryLang = r.URL.Query().Get("lang")
	opts.UserLocale = preferredLocale(r.Header.Get("Accept-Language"))
	return New(opts)
}

// preferredLocale reduces an Accept-Language header to its highest quality
// entry, so "en-GB;q=0.8, it;q=0.9" yields "it". Unparseable headers yield
// the empty string.
func preferredLocale(header string) string {
	if header == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

// SystemLocale reports the process locale for callers without a request, such
// as CLIs. It checks LC_ALL, LC_MESSAGES and LANG in that order, skipping the
// C and POSIX locales, and converts the POSIX form to a hyphenated tag, so
// LANG=it_IT.UTF-8 yields "it-IT". Returns the empty string when nothing is
// set, which resolves to the default language.
func SystemLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		locale := os.Getenv(name)
		if locale == "" || locale == "C" || locale == "POSIX" {
			continue
		}
		// Drop the ".UTF-8" encoding and "@euro" modifier suffixes.
		if i := strings.IndexAny(locale, ".@"); i >= 0 {
			locale = locale[:i]
		}
		return strings.ReplaceAll(locale, "_", "-")
	}
	return ""
}
