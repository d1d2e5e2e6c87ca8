package catalog

import (
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/logger"
)

// LoadSource reads one settings file into a Source. Files are decoded as
// YAML, which also covers JSON settings; key case is preserved, so server
// ids and header names survive intact.
func LoadSource(path string) (Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Source{}, errors.Wrapf(err, "reading settings file %s", path)
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Source{}, errors.Wrapf(errors.ErrConfig, "parsing settings file %s: %v", path, err)
	}
	return Source{Name: filepath.Base(path), Data: Spec(data)}, nil
}

// LoadSources reads every settings file in order. Unreadable files are
// logged and skipped so one broken layer does not hide the others; a
// missing file is normal (the user layer may not exist yet) and only
// logged at debug level.
func LoadSources(paths []string) []Source {
	out := make([]Source, 0, len(paths))
	for _, path := range paths {
		src, err := LoadSource(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debugw("settings file absent", "path", path)
			} else {
				logger.Warnw("skipping unreadable settings file", "path", path, "error", err)
			}
			continue
		}
		out = append(out, src)
	}
	return out
}
