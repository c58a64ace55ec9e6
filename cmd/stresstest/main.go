package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MattiaMarche/i18n-lite/internal/e2etest"
	"github.com/MattiaMarche/i18n-lite/internal/errors"
	"github.com/MattiaMarche/i18n-lite/internal/logging"
	"github.com/MattiaMarche/i18n-lite/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	testTimeout             = 10 * time.Second
	scenarioTimeout         = 30 * time.Second
	maxConcurrentOperations = 20
	numVisitors             = 100
	successRateThreshold    = 95.0
	expectedArgsCount       = 2
	percentageMultiplier    = 100
)

func supportedLanguages() []string {
	return []string{"en", "it", "es", "fr"}
}

// VisitorScenario simulates one visitor reading the site in a single language:
// load the home page with a matching Accept-Language header, verify that only
// that language's elements survived pruning, then fetch the message catalog.
func VisitorScenario(ctx context.Context, client *e2etest.Client, lang string) error {
	doc, err := client.GetDocWithHeaders(ctx, "/", map[string]string{"Accept-Language": lang})
	if err != nil {
		return fmt.Errorf("get home page: %w", err)
	}
	if visible := e2etest.VisibleLanguages(doc, "lang-"); len(visible) != 1 || visible[0] != lang {
		return fmt.Errorf("expected only %s elements on home page, got %v", lang, visible)
	}

	// Follow a language link like a visitor switching languages.
	if doc, err = client.ClickLink(ctx, doc, "/?lang="+lang); err != nil {
		return fmt.Errorf("follow language link: %w", err)
	}
	if title := doc.Find("main h2").First().Text(); title == "" {
		return errors.New("home page has no title")
	}

	var translations struct {
		Language string            `json:"language"`
		Messages map[string]string `json:"messages"`
	}
	if err = client.GetJSON(ctx, "/api/translations?lang="+lang, &translations); err != nil {
		return fmt.Errorf("get translations: %w", err)
	}
	if translations.Language != lang {
		return fmt.Errorf("expected %s catalog, got %s", lang, translations.Language)
	}

	return nil
}

// RunLoadTest hammers the server with concurrent visitors rotating through
// the supported languages.
func RunLoadTest(ctx context.Context, client *e2etest.Client, logger *slog.Logger) error {
	languages := supportedLanguages()
	logger.LogAttrs(ctx, slog.LevelInfo, "Starting load test", slog.Int("num_visitors", numVisitors))

	var successCount, failureCount int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentOperations)

	for i := range numVisitors {
		lang := languages[i%len(languages)]
		g.Go(func() error {
			scenarioCtx, cancel := context.WithTimeout(ctx, scenarioTimeout)
			defer cancel()

			if err := VisitorScenario(scenarioCtx, client, lang); err != nil {
				atomic.AddInt64(&failureCount, 1)
				// Log individual failures but don't stop the entire test
				logger.LogAttrs(scenarioCtx, slog.LevelWarn, "Scenario failed",
					slog.String("language", lang),
					errors.SlogError(err))
				return nil
			}

			atomic.AddInt64(&successCount, 1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	successRate := float64(successCount) / float64(numVisitors) * percentageMultiplier

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed",
		slog.Int64("successful", successCount),
		slog.Int64("failed", failureCount),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("load test failed: success rate %.1f%% below threshold", successRate)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname>")
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

	// Run a single scenario first to fail fast on broken deployments.
	smokeCtx, cancel := context.WithTimeout(ctx, testTimeout)
	if err := VisitorScenario(smokeCtx, client, "en"); err != nil {
		cancel()
		logger.LogAttrs(ctx, slog.LevelError, "smoke scenario failed", errors.SlogError(err))
		os.Exit(1)
	}
	cancel()
	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke scenario passed ✓")

	if err := RunLoadTest(ctx, client, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "load test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Load test completed successfully 🙌",
		slog.Duration("total_duration", time.Since(start)))
}
