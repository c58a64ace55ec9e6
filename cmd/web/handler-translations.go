package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/MattiaMarche/i18n-lite/internal/contexthelpers"
	"github.com/MattiaMarche/i18n-lite/internal/errors"
)

// translationsResponse is the JSON document served by the translations API.
type translationsResponse struct {
	Language  string            `json:"language"`
	Languages []string          `json:"languages"`
	Messages  map[string]string `json:"messages"`
}

// translationsGET serves the message catalog for the language resolved from
// the request, with the default-language fallbacks already applied. Clients
// can force a language with the lang query parameter.
func (app *application) translationsGET(w http.ResponseWriter, r *http.Request) {
	translator := contexthelpers.Translator(r.Context())
	if translator == nil {
		app.serverError(w, r, errors.New("translator missing from request context"))
		return
	}

	supported := translator.Languages()
	languages := make([]string, 0, len(supported))
	for _, lang := range supported {
		languages = append(languages, string(lang))
	}

	response := translationsResponse{
		Language:  string(translator.Language()),
		Languages: languages,
		Messages:  translator.Messages(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode translations", errors.SlogError(err))
	}
}
