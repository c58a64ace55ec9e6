package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/MattiaMarche/i18n-lite/internal/e2etest"
	"github.com/MattiaMarche/i18n-lite/internal/errors"
	"github.com/MattiaMarche/i18n-lite/internal/logging"
	"github.com/MattiaMarche/i18n-lite/internal/testhelpers"
)

// TestLocalization exercises the language resolution paths end to end.
func TestLocalization(client *e2etest.Client) error {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return fmt.Errorf("get home page: %w", err)
	}
	if lang := doc.Find("html").AttrOr("lang", ""); lang == "" {
		return errors.New("home page has no lang attribute")
	}

	if doc, err = client.GetDoc(ctx, "/?lang=it"); err != nil {
		return fmt.Errorf("get Italian home page: %w", err)
	}
	if visible := e2etest.VisibleLanguages(doc, "lang-"); len(visible) != 1 || visible[0] != "it" {
		return fmt.Errorf("expected only Italian elements, got %v", visible)
	}

	var translations struct {
		Language string            `json:"language"`
		Messages map[string]string `json:"messages"`
	}
	if err = client.GetJSON(ctx, "/api/translations?lang=es", &translations); err != nil {
		return fmt.Errorf("get translations: %w", err)
	}
	if translations.Language != "es" {
		return fmt.Errorf("expected Spanish catalog, got %q", translations.Language)
	}
	if len(translations.Messages) == 0 {
		return errors.New("translation catalog is empty")
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := e2etest.NewClient(url)
	if err := client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}
	if err := TestLocalization(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing localization", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}
