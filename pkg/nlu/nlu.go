// Package nlu loads NLU training data in the JSON and Markdown formats.
//
// The data is only used to turn intents back into example sentences when rendering a
// story graph; no model is trained here.
package nlu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/storyviz/pkg/domain"
)

// LoadData reads a file or a directory of NLU training data.
// Directories merge every .json and .md file in lexical order.
// Every failure wraps domain.ErrNLULoad.
func LoadData(path string) (*domain.NLUData, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: file '%s' could not be found", domain.ErrNLULoad, path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNLULoad, err)
	}
	if !info.IsDir() {
		return loadFile(path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && supported(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNLULoad, err)
	}
	sort.Strings(files)

	merged := &domain.NLUData{}
	for _, f := range files {
		data, err := loadFile(f)
		if err != nil {
			return nil, err
		}
		merged.Merge(data)
	}
	return merged, nil
}

func supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".md", ".markdown":
		return true
	default:
		return false
	}
}

func loadFile(path string) (*domain.NLUData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNLULoad, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(path, raw)
	case ".md", ".markdown":
		return ParseMarkdown(path, raw)
	default:
		return nil, fmt.Errorf("%w: unsupported file format %q", domain.ErrNLULoad, filepath.Ext(path))
	}
}
