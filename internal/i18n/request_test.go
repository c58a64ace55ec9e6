package i18n_test

import (
	"net/http/httptest"
	"testing"

	"github.com/MattiaMarche/i18n-lite/internal/i18n"
)

func TestNewFromRequest(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		acceptLanguage string
		want           i18n.Language
	}{
		{
			name:           "query parameter wins over header",
			target:         "/?lang=it",
			acceptLanguage: "es",
			want:           "it",
		},
		{
			name:           "header used without query parameter",
			target:         "/",
			acceptLanguage: "es",
			want:           "es",
		},
		{
			name:           "highest quality header entry wins",
			target:         "/",
			acceptLanguage: "en-GB;q=0.8, it;q=0.9",
			want:           "it",
		},
		{
			name:           "header region subtag is stripped",
			target:         "/",
			acceptLanguage: "en-GB",
			want:           "en",
		},
		{
			name:           "unsupported header falls back to default",
			target:         "/",
			acceptLanguage: "de-DE,de;q=0.9",
			want:           "en",
		},
		{
			name:           "wildcard header falls back to default",
			target:         "/",
			acceptLanguage: "*",
			want:           "en",
		},
		{
			name:           "garbage header falls back to default",
			target:         "/",
			acceptLanguage: ";;;",
			want:           "en",
		},
		{
			name:   "no signals fall back to default",
			target: "/",
			want:   "en",
		},
		{
			name:           "uppercase query parameter is normalized",
			target:         "/?lang=ES",
			acceptLanguage: "it",
			want:           "es",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if tt.acceptLanguage != "" {
				r.Header.Set("Accept-Language", tt.acceptLanguage)
			}

			translator := i18n.NewFromRequest(r, i18n.Options{Translations: testTable()})
			if got := translator.Language(); got != tt.want {
				t.Errorf("Language() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSystemLocale(t *testing.T) {
	tests := []struct {
		name       string
		lcAll      string
		lcMessages string
		lang       string
		want       string
	}{
		{
			name:  "LC_ALL wins",
			lcAll: "it_IT.UTF-8",
			lang:  "en_US.UTF-8",
			want:  "it-IT",
		},
		{
			name:       "LC_MESSAGES before LANG",
			lcMessages: "es_ES@euro",
			lang:       "en_US.UTF-8",
			want:       "es-ES",
		},
		{
			name: "LANG as last resort",
			lang: "fr_FR",
			want: "fr-FR",
		},
		{
			name: "C locale carries no language",
			lang: "C",
			want: "",
		},
		{
			name:  "POSIX locale is skipped in favor of LANG",
			lcAll: "POSIX",
			lang:  "it_IT.UTF-8",
			want:  "it-IT",
		},
		{
			name: "nothing set",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MESSAGES", tt.lcMessages)
			t.Setenv("LANG", tt.lang)

			if got := i18n.SystemLocale(); got != tt.want {
				t.Errorf("SystemLocale() = %q, want %q", got, tt.want)
			}
		})
	}
}
