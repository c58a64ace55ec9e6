package main

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/trace"
	"strings"
	"time"

	"github.com/MattiaMarche/i18n-lite/internal/contexthelpers"
	"github.com/MattiaMarche/i18n-lite/internal/errors"
	"github.com/MattiaMarche/i18n-lite/internal/i18n"
	"github.com/MattiaMarche/i18n-lite/internal/logging"
)

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		headerWritten:  false,
	}
}

func (mw *statusResponseWriter) WriteHeader(statusCode int) {
	mw.ResponseWriter.WriteHeader(statusCode)

	if !mw.headerWritten {
		mw.statusCode = statusCode
		mw.headerWritten = true
	}
}

func (mw *statusResponseWriter) Write(b []byte) (int, error) {
	mw.headerWritten = true
	written, err := mw.ResponseWriter.Write(b)
	if err != nil {
		return written, fmt.Errorf("write response: %w", err)
	}
	return written, nil
}

func (mw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return mw.ResponseWriter
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		csp := `default-src 'none';
connect-src 'self';
img-src 'self';
style-src 'self';
frame-ancestors 'self';
form-action 'self';
font-src 'none';
object-src 'none';
manifest-src 'self';
base-uri 'none';`

		w.Header().Set("Content-Security-Policy", csp)
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")

		next.ServeHTTP(w, r)
	})
}

func cacheForever(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

		next.ServeHTTP(w, r)
	})
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}

// slowRequestThreshold is the duration after which a completed request is
// considered slow enough to capture an execution trace.
const slowRequestThreshold = time.Second

func (app *application) logAndTraceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		ctx := r.Context()
		traceID := rand.Text()
		ctx = logging.WithAttrs(
			ctx,
			slog.Any("trace_id", traceID),
			slog.String("proto", proto),
			slog.String("method", method),
			slog.String("uri", uri),
		)
		r = r.WithContext(ctx)

		start := time.Now()
		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request")

		// Wrap the response writer to capture status code
		sw := newStatusResponseWriter(w)

		if !trace.IsEnabled() {
			next.ServeHTTP(sw, r)
		} else {
			path := r.URL.Path
			taskName := fmt.Sprintf("HTTP %s %s", r.Method, path)
			traceCtx, task := trace.NewTask(ctx, taskName)

			trace.Log(traceCtx, "request", fmt.Sprintf("method=%s path=%s proto=%s", method, path, proto))
			trace.Log(traceCtx, "trace_id", traceID)

			defer func() {
				trace.Log(traceCtx, "response", fmt.Sprintf("status=%d duration=%v", sw.statusCode, time.Since(start)))
				task.End()
			}()

			r = r.WithContext(traceCtx)
			next.ServeHTTP(sw, r)
		}

		// Log request completion
		duration := time.Since(start)
		level := slog.LevelInfo
		if sw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		app.logger.LogAttrs(r.Context(), level, "request completed",
			slog.Int("status_code", sw.statusCode), slog.Duration("duration", duration))

		if app.flightRecorder != nil && duration >= slowRequestThreshold {
			app.flightRecorder.CaptureSlowTrace(r.Context())
		}
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := errors.DecoratePanic(recover()); err != nil {
				app.serverError(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCurrentPath(r, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// crossOriginProtection implements CSRF protection using Go 1.25's CrossOriginProtection.
func (app *application) crossOriginProtection(next http.Handler) http.Handler {
	protection := http.NewCrossOriginProtection()
	return protection.Handler(next)
}

// resolveLanguage detects the language for the request and stores the
// resulting translator in the context. Detection never fails, unsupported
// codes degrade to the default language.
func (app *application) resolveLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		translator := i18n.NewFromRequest(r, app.i18nOpts)
		r = contexthelpers.SetTranslator(r, translator)
		r = r.WithContext(logging.WithAttrs(r.Context(),
			slog.String("language", string(translator.Language()))))
		next.ServeHTTP(w, r)
	})
}

// htmlResponseBuffer captures a response so the finished document can be
// rewritten before anything reaches the client.
type htmlResponseBuffer struct {
	http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func (b *htmlResponseBuffer) WriteHeader(statusCode int) {
	if b.statusCode == 0 {
		b.statusCode = statusCode
	}
}

func (b *htmlResponseBuffer) Write(p []byte) (int, error) {
	written, err := b.body.Write(p)
	if err != nil {
		return written, fmt.Errorf("buffer response: %w", err)
	}
	return written, nil
}

func (b *htmlResponseBuffer) Unwrap() http.ResponseWriter {
	return b.ResponseWriter
}

// localizeHTML buffers HTML responses and prunes the elements tagged for
// languages other than the one resolved for the request. Non-HTML responses
// pass through untouched. A response that cannot be parsed is sent as-is.
func (app *application) localizeHTML(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := &htmlResponseBuffer{ResponseWriter: w, body: bytes.Buffer{}, statusCode: 0}
		next.ServeHTTP(buf, r)

		statusCode := buf.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}

		body := buf.body.Bytes()
		contentType := buf.Header().Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(body)
		}

		translator := contexthelpers.Translator(r.Context())
		if translator != nil && strings.Contains(contentType, "text/html") {
			localized, err := translator.LocalizeHTML(body)
			if err != nil {
				app.logger.LogAttrs(r.Context(), slog.LevelWarn, "localize response", errors.SlogError(err))
			} else {
				body = localized
				// Pruning changes the length, recompute it on the way out.
				w.Header().Del("Content-Length")
			}
		}

		w.WriteHeader(statusCode)
		if _, err := w.Write(body); err != nil {
			app.logger.LogAttrs(r.Context(), slog.LevelError, "write response", errors.SlogError(err))
		}
	})
}

// timeout times out the request and cancels the context using http.TimeoutHandler.
func (app *application) timeout(next http.Handler) http.Handler {
	requestTimeout := defaultTimeout - (200 * time.Millisecond) //nolint:mnd // writing the response takes time.
	return http.TimeoutHandler(next, requestTimeout, "timed out")
}
