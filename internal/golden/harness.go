package golden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"metalint/internal/analyzer"
	"metalint/internal/diag"
)

// Case describes one golden scenario: каталог src/ с корпусом, манифест
// case.yaml и ожидаемые снимки рядом.
type Case struct {
	Description string            `yaml:"description"`
	Defines     map[string]string `yaml:"defines"`
	SearchRoots []string          `yaml:"search_roots"`
	// NotesInGolden включает note-строки в текстовый снимок.
	NotesInGolden bool `yaml:"notes_in_golden"`
}

const (
	caseManifest  = "case.yaml"
	corpusSubdir  = "src"
	goldenFile    = "expected.golden"
	modelSnapshot = "model.snapshot"
)

// LoadCase reads the manifest; отсутствующий файл означает кейс
// с настройками по умолчанию.
func LoadCase(dir string) (Case, error) {
	var c Case
	raw, err := os.ReadFile(filepath.Join(dir, caseManifest)) // #nosec G304 -- testdata path
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", caseManifest, err)
	}
	return c, nil
}

// Report is the produced output of one case run.
type Report struct {
	Case   Case
	Golden string
	Model  Model
	Result *analyzer.Result
}

// Run analyzes the case corpus and renders its snapshots.
func Run(dir string) (*Report, error) {
	c, err := LoadCase(dir)
	if err != nil {
		return nil, err
	}
	res, err := analyzer.Run(analyzer.Config{
		Root:        filepath.Join(dir, corpusSubdir),
		Defines:     c.Defines,
		SearchRoots: c.SearchRoots,
	})
	if err != nil {
		return nil, err
	}
	return &Report{
		Case:   c,
		Golden: diag.FormatGolden(res.Bag.Items(), res.FileSet, c.NotesInGolden),
		Model:  BuildModel(res),
		Result: res,
	}, nil
}

// Verify runs the case and diffs its output against stored snapshots.
// update перезаписывает снимки вместо сравнения. Возвращаемая строка
// пуста, если расхождений нет.
func Verify(dir string, update bool) (string, error) {
	rep, err := Run(dir)
	if err != nil {
		return "", err
	}

	goldenPath := filepath.Join(dir, goldenFile)
	modelPath := filepath.Join(dir, modelSnapshot)

	if update {
		if err := os.WriteFile(goldenPath, []byte(rep.Golden+"\n"), 0o644); err != nil {
			return "", err
		}
		data, err := rep.Model.Encode()
		if err != nil {
			return "", err
		}
		return "", os.WriteFile(modelPath, data, 0o600)
	}

	var b strings.Builder

	want, err := os.ReadFile(goldenPath) // #nosec G304 -- testdata path
	if err != nil {
		return "", fmt.Errorf("read golden: %w", err)
	}
	if diff := cmp.Diff(normalize(string(want)), normalize(rep.Golden)); diff != "" {
		fmt.Fprintf(&b, "diagnostics mismatch (-want +got):\n%s", diff)
	}

	// снимок модели опционален: появляется после первого update
	if raw, err := os.ReadFile(modelPath); err == nil { // #nosec G304 -- testdata path
		stored, err := DecodeModel(raw)
		if err != nil {
			return "", err
		}
		if diff := cmp.Diff(stored, rep.Model); diff != "" {
			fmt.Fprintf(&b, "model mismatch (-want +got):\n%s", diff)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	return b.String(), nil
}

func normalize(s string) string {
	return strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
