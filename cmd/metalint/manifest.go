package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is looked up from the working directory upward, so the
// tool can be invoked from anywhere inside a project.
const ManifestName = "metalint.toml"

// Manifest is the on-disk project configuration. Флаги командной строки
// перекрывают значения манифеста.
type Manifest struct {
	Corpus struct {
		// Root is the corpus directory, relative to the manifest.
		Root string `toml:"root"`
		// SearchRoots — дополнительные каталоги поиска включений,
		// относительно Root.
		SearchRoots []string `toml:"search_roots"`
	} `toml:"corpus"`

	// Defines — начальное макроокружение прогона.
	Defines map[string]string `toml:"defines"`

	Output struct {
		Format         string `toml:"format"` // pretty|json|golden
		MaxDiagnostics int    `toml:"max_diagnostics"`
		NoWarnings     bool   `toml:"no_warnings"`
		Fullpath       bool   `toml:"fullpath"`
	} `toml:"output"`
}

// findManifest walks from dir to the filesystem root looking for
// metalint.toml. Возвращает полный путь и признак находки.
func findManifest(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		cand := filepath.Join(dir, ManifestName)
		if st, err := os.Stat(cand); err == nil && !st.IsDir() {
			return cand, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// loadManifest parses the manifest at path. Корпусный корень
// перезаписывается на абсолютный относительно манифеста.
func loadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m.Corpus.Root != "" && !filepath.IsAbs(m.Corpus.Root) {
		m.Corpus.Root = filepath.Join(filepath.Dir(path), m.Corpus.Root)
	}
	return &m, nil
}
