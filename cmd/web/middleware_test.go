package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/MattiaMarche/i18n-lite/internal/i18n"
)

func newTestApplication() *application {
	return &application{ //nolint:exhaustruct // this is a test
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		i18nOpts: i18n.Options{ //nolint:exhaustruct // this is a test
			ClassPrefix: "lang-",
		},
	}
}

func Test_application_timeout(t *testing.T) {
	tests := []struct {
		name     string
		sleepMS  int
		timesOut bool
	}{
		{
			name:     "completes within timeout",
			sleepMS:  500,
			timesOut: false,
		},
		{
			name:     "times out",
			sleepMS:  3000,
			timesOut: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				app := newTestApplication()
				handler, err := app.routes()
				if err != nil {
					t.Fatalf("Failed to set up routes: %v", err)
				}

				url := fmt.Sprintf("/api/test/timeout?sleep_ms=%d", tt.sleepMS)
				req := httptest.NewRequest(http.MethodGet, url, nil)
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				time.Sleep(time.Duration(tt.sleepMS) * time.Millisecond)

				if tt.timesOut {
					// TimeoutHandler returns 503 Service Unavailable with "timed out" message
					if w.Code != http.StatusServiceUnavailable {
						t.Errorf("Expected status 503 on timeout, got %d", w.Code)
					}

					if !strings.Contains(w.Body.String(), "timed out") {
						t.Errorf("Expected timeout message in response body, got: %s", w.Body.String())
					}
				} else if w.Code != http.StatusOK {
					t.Errorf("Expected status 200, got %d", w.Code)
				}
			})
		})
	}
}

func Test_application_localizeHTML(t *testing.T) {
	app := newTestApplication()

	page := `<!doctype html><html><head></head><body>` +
		`<p class="lang-en">Hello</p><p class="lang-it">Ciao</p></body></html>`

	htmlHandler := app.resolveLanguage(app.localizeHTML(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})))

	t.Run("prunes foreign language elements", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?lang=it", nil)
		w := httptest.NewRecorder()

		htmlHandler.ServeHTTP(w, req)

		body := w.Body.String()
		if strings.Contains(body, "Hello") {
			t.Errorf("Expected English block to be pruned, got: %s", body)
		}
		if !strings.Contains(body, "Ciao") {
			t.Errorf("Expected Italian block to remain, got: %s", body)
		}
	})

	t.Run("sniffs HTML when no content type is set", func(t *testing.T) {
		sniffed := app.resolveLanguage(app.localizeHTML(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(page))
		})))
		req := httptest.NewRequest(http.MethodGet, "/?lang=it", nil)
		w := httptest.NewRecorder()

		sniffed.ServeHTTP(w, req)

		if strings.Contains(w.Body.String(), "Hello") {
			t.Errorf("Expected English block to be pruned, got: %s", w.Body.String())
		}
	})

	t.Run("leaves non-HTML responses alone", func(t *testing.T) {
		jsonHandler := app.resolveLanguage(app.localizeHTML(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"lang-en":"Hello"}`))
		})))
		req := httptest.NewRequest(http.MethodGet, "/?lang=it", nil)
		w := httptest.NewRecorder()

		jsonHandler.ServeHTTP(w, req)

		if got, want := w.Body.String(), `{"lang-en":"Hello"}`; got != want {
			t.Errorf("Expected JSON body unchanged, got: %s", got)
		}
	})

	t.Run("preserves the response status", func(t *testing.T) {
		teapotHandler := app.resolveLanguage(app.localizeHTML(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte(page))
		})))
		req := httptest.NewRequest(http.MethodGet, "/?lang=it", nil)
		w := httptest.NewRecorder()

		teapotHandler.ServeHTTP(w, req)

		if w.Code != http.StatusTeapot {
			t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Ciao") {
			t.Errorf("Expected localized body on error status, got: %s", w.Body.String())
		}
	})
}
