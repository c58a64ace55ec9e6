package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/MattiaMarche/i18n-lite/internal/contexthelpers"
	"github.com/MattiaMarche/i18n-lite/internal/i18n"
)

type BaseTemplateData struct {
	CurrentPath string
	Language    i18n.Language
	Languages   []i18n.Language
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	ctx := r.Context()
	data := BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(ctx),
		Language:    "",
		Languages:   nil,
	}
	if translator := contexthelpers.Translator(ctx); translator != nil {
		data.Language = translator.Language()
		data.Languages = translator.Languages()
	}
	return data
}

// findModuleDir locates the directory containing the go.mod file.
func findModuleDir() (string, error) {
	var (
		dir string
		err error
	)
	dir, err = os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err = os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir { // If we reached the root directory
			break
		}
		dir = parentDir
	}

	return "", os.ErrNotExist
}

// resolveAndVerifyDir resolves a directory path and verifies that it exists.
//
// If dir is empty, it is located from the module root using the given path segments.
func resolveAndVerifyDir(dir string, defaultSegments ...string) (string, error) {
	var err error
	if dir == "" {
		var modulePath string
		if modulePath, err = findModuleDir(); err != nil {
			return "", fmt.Errorf("find module dir: %w", err)
		}
		dir = filepath.Join(append([]string{modulePath}, defaultSegments...)...)
	}
	var stat os.FileInfo
	if stat, err = os.Stat(dir); err != nil {
		return "", fmt.Errorf("directory not found %s: %w", dir, err)
	}
	if !stat.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}
	return dir, nil
}
