package contexthelpers

import (
	"context"

	"github.com/MattiaMarche/i18n-lite/internal/i18n"
)

// Translator returns the request-scoped translator or nil when none was
// resolved for the context.
func Translator(ctx context.Context) *i18n.Translator {
	translator, ok := ctx.Value(TranslatorContextKey).(*i18n.Translator)
	if !ok {
		return nil
	}

	return translator
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}
