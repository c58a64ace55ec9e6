package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// fileServerHandler creates a file server handler with custom 404 handling.
// Requests for missing files render the localized not-found page through the
// given page middleware chain.
func (app *application) fileServerHandler(page func(http.Handler) http.Handler) (http.Handler, error) {
	fileRoot, err := resolveAndVerifyDir("", "ui", "static")
	if err != nil {
		return nil, fmt.Errorf("resolve static file root: %w", err)
	}
	fileServer := http.FileServer(http.Dir(fileRoot))

	static := func(next http.Handler) http.Handler {
		return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
			commonContext(app.timeout(next))))))
	}
	notFoundHandler := page(http.HandlerFunc(app.notFound))

	return static(cacheForever(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Sanitize the URL path to prevent directory traversal attacks
			cleanPath := filepath.Clean(r.URL.Path)
			if strings.Contains(cleanPath, "..") {
				notFoundHandler.ServeHTTP(w, r)
				return
			}
			staticPath := filepath.Join(fileRoot, cleanPath)
			if _, err := os.Stat(staticPath); os.IsNotExist(err) {
				notFoundHandler.ServeHTTP(w, r)
				return
			}

			// File exists, serve it normally
			fileServer.ServeHTTP(w, r)
		}))), nil
}
