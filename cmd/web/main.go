package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/MattiaMarche/i18n-lite/internal/envstruct"
	"github.com/MattiaMarche/i18n-lite/internal/errors"
	"github.com/MattiaMarche/i18n-lite/internal/flightrecorder"
	"github.com/MattiaMarche/i18n-lite/internal/i18n"
	"github.com/MattiaMarche/i18n-lite/internal/logging"
	"github.com/MattiaMarche/i18n-lite/internal/pprofserver"
)

type application struct {
	logger     *slog.Logger
	templateFS fs.FS
	// i18nOpts is the construction recipe shared by every request, with the
	// request-specific signals left blank.
	i18nOpts i18n.Options
	// flightRecorder captures execution traces for slow requests. Nil when
	// trace capture is disabled.
	flightRecorder *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"I18NLITE_ADDR" envDefault:"localhost:8080"`
	// PProfAddr is the optional address to listen on for the pprof server.
	PProfAddr string `env:"I18NLITE_PPROF_ADDR" envDefault:""`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"I18NLITE_TEMPLATE_PATH" envDefault:""`
	// LocalesPath is the path to the directory containing the locale files.
	LocalesPath string `env:"I18NLITE_LOCALES_PATH" envDefault:""`
	// Languages is the comma-separated list of supported language codes.
	Languages []string `env:"I18NLITE_LANGUAGES" envDefault:"en,it,es,fr"`
	// DefaultLanguage is the language used when detection fails.
	DefaultLanguage string `env:"I18NLITE_DEFAULT_LANGUAGE" envDefault:"en"`
	// ClassPrefix tags the language-specific HTML elements, e.g. class "lang-it".
	ClassPrefix string `env:"I18NLITE_CLASS_PREFIX" envDefault:"lang-"`
	// TracesDirectory is where slow request traces are written. Empty disables capture.
	TracesDirectory string `env:"I18NLITE_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PProfAddr != "" {
		pprofserver.Launch(ctx, cfg.PProfAddr, logger)
	}

	var templatePath string
	if templatePath, err = resolveAndVerifyDir(cfg.TemplatePath, "ui", "templates"); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	var localesPath string
	if localesPath, err = resolveAndVerifyDir(cfg.LocalesPath, "ui", "locales"); err != nil {
		return errors.Wrap(err, "resolve locales path")
	}

	var table i18n.Table
	if table, err = i18n.LoadTable(os.DirFS(localesPath)); err != nil {
		return errors.Wrap(err, "load translations", slog.String("path", localesPath))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded translations", slog.Int("languages", len(table)))

	languages := make([]i18n.Language, 0, len(cfg.Languages))
	for _, code := range cfg.Languages {
		languages = append(languages, i18n.Language(code))
	}

	var recorder *flightrecorder.Service
	if cfg.TracesDirectory != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			MinAge:          0,
			MaxBytes:        0,
			TracesDirectory: cfg.TracesDirectory,
		}); err != nil {
			return errors.Wrap(err, "create flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	app := application{
		logger:     logger,
		templateFS: os.DirFS(templatePath),
		i18nOpts: i18n.Options{
			Translations: table,
			Languages:    languages,
			Default:      i18n.Language(cfg.DefaultLanguage),
			Requested:    "",
			ClassPrefix:  cfg.ClassPrefix,
			QueryLang:    "",
			UserLocale:   "",
		},
		flightRecorder: recorder,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
