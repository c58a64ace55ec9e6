package main

import (
	"fmt"
	"net/http"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		common = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(next))))
		}
		page = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(common(
				app.resolveLanguage(app.localizeHTML(app.timeout(next))))))
		}
		api = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(common(app.resolveLanguage(app.timeout(next)))))
		}
	)

	mux.Handle("GET /api/translations", api(http.HandlerFunc(app.translationsGET)))
	mux.Handle("GET /api/healthy", api(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/test/timeout", api(http.HandlerFunc(app.testTimeout)))

	// Home route (most specific)
	mux.Handle("GET /{$}", page(http.HandlerFunc(app.home)))

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler(page)
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
