package contexthelpers

import (
	"context"
	"net/http"

	"github.com/MattiaMarche/i18n-lite/internal/i18n"
)

func SetTranslator(r *http.Request, translator *i18n.Translator) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, TranslatorContextKey, translator)
	return r.WithContext(ctx)
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, CurrentPathContextKey, currentPath)
	return r.WithContext(ctx)
}
