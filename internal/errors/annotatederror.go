// Package errors provides error annotation with slog attributes and source locations.
//
// It is a drop-in replacement for the standard library errors package: the
// stdlib helpers are re-exported so callers only need one import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// AnnotatedError carries a message, an optional cause, slog attributes for
// structured logging, and the source location where it was created.
type AnnotatedError struct {
	msg   string
	cause error
	attrs []slog.Attr
	file  string
	line  int
}

// Error joins the annotation messages with the root cause, e.g.
// "outer context: inner context: root cause".
func (e *AnnotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

// Unwrap returns the wrapped error so that [Is] and [As] can traverse the chain.
func (e *AnnotatedError) Unwrap() error {
	return e.cause
}

// NewSentinel creates a sentinel error to compare against with [Is].
func NewSentinel(msg string) *AnnotatedError {
	file, line := callerLocation(1)
	return &AnnotatedError{msg: msg, cause: nil, attrs: nil, file: file, line: line}
}

// Wrap annotates err with a message and optional slog attributes. The caller's
// source location is recorded for [SlogError]. Returns nil when err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	file, line := callerLocation(1)
	return &AnnotatedError{msg: msg, cause: err, attrs: attrs, file: file, line: line}
}

// DecoratePanic converts a recovered panic value into an error pointing at the
// panic site rather than the recovery site. Returns nil when excp is nil so it
// can be called unconditionally in a deferred function.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	file, line := panicLocation()
	return &AnnotatedError{msg: fmt.Sprintf("panic: %v", excp), cause: nil, attrs: nil, file: file, line: line}
}

// panicLocation finds the frame that raised the panic by walking the stack
// past runtime.gopanic. When called outside a panicking goroutine it falls
// back to the DecoratePanic call site.
func panicLocation() (string, int) {
	var (
		pcs  [32]uintptr
		file string
		line int
	)
	// Skip runtime.Callers, panicLocation and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:runtime.Callers(3, pcs[:])])
	sawPanic := false
	for {
		frame, more := frames.Next()
		if file == "" {
			file, line = filepath.Base(frame.File), frame.Line
		}
		if sawPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return filepath.Base(frame.File), frame.Line
		}
		if frame.Function == "runtime.gopanic" {
			sawPanic = true
		}
		if !more {
			break
		}
	}
	return file, line
}

// SlogError renders err as a grouped slog.Attr containing the message, the
// source location closest to the root cause, and any attribute annotations
// gathered along the wrap chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []slog.Attr
		file        string
		line        int
	)
	for e := err; e != nil; e = errors.Unwrap(e) {
		annotated, ok := e.(*AnnotatedError)
		if !ok {
			// Plain fmt.Errorf links in the chain carry no annotations; keep walking.
			continue
		}
		annotations = append(annotations, annotated.attrs...)
		if annotated.file != "" {
			file = annotated.file
			line = annotated.line
		}
	}

	group := []slog.Attr{slog.String("message", err.Error())}
	if file != "" {
		group = append(group, slog.String("source", fmt.Sprintf("%s:%d", file, line)))
	}
	if len(annotations) > 0 {
		group = append(group, slog.Attr{Key: "annotations", Value: slog.GroupValue(annotations...)})
	}
	return slog.Attr{Key: "error", Value: slog.GroupValue(group...)}
}

// callerLocation returns the file base name and line of the caller skipping
// the given number of frames on top of callerLocation itself.
func callerLocation(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

// New returns an error with the given text. See [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's chain matches target. See [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target. See [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps the given errors into a single error. See [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}
