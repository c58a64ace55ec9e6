// Package i18n resolves the active language for a visitor and translates
// message keys with a two-level fallback: the active language first, the
// default language second, the key itself last.
package i18n

import (
	"slices"
	"strings"
)

// Language represents a supported language code such as "en" or "it".
type Language string

const (
	// English is the English language.
	English Language = "en"
	// Italian is the Italian language.
	Italian Language = "it"
	// Spanish is the Spanish language.
	Spanish Language = "es"
	// French is the French language.
	French Language = "fr"
)

// DefaultLanguage is the fallback language when none is configured.
const DefaultLanguage = English

// DefaultLanguages returns the language list used when Options.Languages is
// empty.
func DefaultLanguages() []Language {
	return []Language{English, Italian, Spanish, French}
}

// Table maps language codes to message keys and their localized strings.
type Table map[Language]map[string]string

// Options configures a Translator. Every field is optional.
type Options struct {
	// Translations is the message table. It is shared by reference, the
	// caller must not mutate it after construction.
	Translations Table
	// Languages lists the supported language codes. Defaults to
	// DefaultLanguages.
	Languages []Language
	// Default is the fallback language. Defaults to DefaultLanguage. It is
	// trusted to be a member of Languages.
	Default Language
	// Requested pins the language outright when it is a supported code,
	// bypassing detection. Unsupported values are ignored.
	Requested Language
	// ClassPrefix tags HTML elements belonging to one language, e.g. prefix
	// "lang-" marks Italian-only elements with class "lang-it". When empty,
	// SyncDisplay does nothing.
	ClassPrefix string
	// QueryLang is the lang parameter of the current page URL.
	QueryLang string
	// UserLocale is the locale reported by the visitor's platform, e.g.
	// "en-GB" from an Accept-Language header or "it-IT" from LANG.
	UserLocale string
}

// Translator owns a translation table and the language resolved for one
// visitor. The language is resolved exactly once at construction and never
// changes, so a Translator is safe for concurrent use.
type Translator struct {
	translations Table
	languages    []Language
	defaultLang  Language
	classPrefix  string
	current      Language
}

// New constructs a Translator, resolving the active language from opts:
//
//  1. Take QueryLang when non-empty, otherwise UserLocale.
//  2. Normalize the code: lowercase, region subtag stripped ("EN-GB" -> "en").
//  3. Fall back to Default when the code is not a supported language.
//  4. A supported Requested language overrides all of the above.
//
// Malformed input never fails construction, it degrades to Default.
func New(opts Options) *Translator {
	if opts.Translations == nil {
		opts.Translations = Table{}
	}
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultLanguages()
	}
	if opts.Default == "" {
		opts.Default = DefaultLanguage
	}

	t := &Translator{
		translations: opts.Translations,
		languages:    slices.Clone(opts.Languages),
		defaultLang:  opts.Default,
		classPrefix:  opts.ClassPrefix,
		current:      "",
	}
	t.current = t.resolve(opts)
	return t
}

// resolve detects the active language. Runs once during construction.
func (t *Translator) resolve(opts Options) Language {
	candidate := opts.QueryLang
	if candidate == "" {
		candidate = opts.UserLocale
	}

	lang := normalize(candidate)
	if !t.supports(lang) {
		lang = t.defaultLang
	}

	// An explicit request wins, but only for a supported code. The requested
	// code is matched verbatim, without normalization.
	if opts.Requested != "" && t.supports(opts.Requested) {
		lang = opts.Requested
	}
	return lang
}

// normalize lowercases a locale code and strips the region subtag, turning
// "EN-GB" into "en".
func normalize(code string) Language {
	code = strings.ToLower(code)
	if i := strings.IndexByte(code, '-'); i >= 0 {
		code = code[:i]
	}
	return Language(code)
}

func (t *Translator) supports(lang Language) bool {
	return slices.Contains(t.languages, lang)
}

// Translate returns the translation for the given key in the active language.
// If the key is not found, it falls back to the default language. If still
// not found, it returns the key itself.
func (t *Translator) Translate(key string) string {
	return t.TranslateTo(t.current, key)
}

// TranslateTo is Translate for an explicitly chosen language instead of the
// active one.
func (t *Translator) TranslateTo(lang Language, key string) string {
	// Indexing a missing language yields a nil map and indexing that yields
	// "", so absent languages, absent keys and empty values all fall through
	// alike.
	if translation := t.translations[lang][key]; translation != "" {
		return translation
	}

	if lang != t.defaultLang {
		if translation := t.translations[t.defaultLang][key]; translation != "" {
			return translation
		}
	}

	return key
}

// Messages returns the message map for the active language with the default
// language filling the gaps, mirroring what Translate returns key by key.
func (t *Translator) Messages() map[string]string {
	merged := make(map[string]string, len(t.translations[t.defaultLang]))
	for key, translation := range t.translations[t.defaultLang] {
		if translation != "" {
			merged[key] = translation
		}
	}
	for key, translation := range t.translations[t.current] {
		if translation != "" {
			merged[key] = translation
		}
	}
	return merged
}

// Language returns the active language resolved at construction.
func (t *Translator) Language() Language {
	return t.current
}

// Languages returns the supported languages in configuration order.
func (t *Translator) Languages() []Language {
	return slices.Clone(t.languages)
}

// Default returns the fallback language.
func (t *Translator) Default() Language {
	return t.defaultLang
}
