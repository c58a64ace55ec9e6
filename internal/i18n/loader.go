package i18n

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/MattiaMarche/i18n-lite/internal/errors"
	"github.com/pelletier/go-toml/v2"
)

// LoadTable builds a translation table from the locale files at the root of
// fsys. A file en.toml or en.json contributes messages for the language "en";
// files with other extensions are ignored. Nested sections flatten into
// dot-separated keys, so in TOML
//
//	[home]
//	title = "Welcome"
//
// becomes the key "home.title".
func LoadTable(fsys fs.FS) (Table, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "read locale directory")
	}

	table := Table{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := path.Ext(name)
		if ext != ".toml" && ext != ".json" {
			continue
		}
		lang := Language(strings.ToLower(strings.TrimSuffix(name, ext)))

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrap(err, "read locale file", slog.String("file", name))
		}

		var nested map[string]any
		switch ext {
		case ".toml":
			err = toml.Unmarshal(data, &nested)
		case ".json":
			err = json.Unmarshal(data, &nested)
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse locale file", slog.String("file", name))
		}

		messages := table[lang]
		if messages == nil {
			messages = map[string]string{}
			table[lang] = messages
		}
		flatten("", nested, messages)
	}
	return table, nil
}

// flatten walks nested maps depth-first, joining path segments with dots.
// Leaves that are not strings are skipped.
func flatten(prefix string, nested map[string]any, out map[string]string) {
	for key, value := range nested {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := value.(type) {
		case string:
			out[key] = v
		case map[string]any:
			flatten(key, v, out)
		}
	}
}
