package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"metalint/internal/analyzer"
	"metalint/internal/diag"
	"metalint/internal/diagfmt"
)

var (
	analyzeFormat  string
	analyzeDefines []string
	analyzeRoots   []string
	analyzeJobs    int
	analyzeMax     int
	analyzeNoWarn  bool
	analyzeFull    bool
	analyzeNotes   bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "output format (pretty|json|golden)")
	analyzeCmd.Flags().StringArrayVarP(&analyzeDefines, "define", "D", nil, "predefine a macro (NAME or NAME=VALUE, repeatable)")
	analyzeCmd.Flags().StringArrayVar(&analyzeRoots, "search-root", nil, "extra include search directory, relative to the corpus root")
	analyzeCmd.Flags().IntVar(&analyzeJobs, "jobs", 0, "parallel file reads (0 = number of CPUs)")
	analyzeCmd.Flags().IntVar(&analyzeMax, "max-diagnostics", 0, "cap the number of collected diagnostics (0 = default)")
	analyzeCmd.Flags().BoolVar(&analyzeNoWarn, "no-warnings", false, "print errors only")
	analyzeCmd.Flags().BoolVar(&analyzeFull, "fullpath", false, "print absolute file paths")
	analyzeCmd.Flags().BoolVar(&analyzeNotes, "notes", true, "print attached notes")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [corpus-dir]",
	Short: "Analyze a corpus of shading-language headers",
	Long: `Analyze walks the corpus directory, preprocesses every header under
the configured macro environment, resolves includes and overloads, and
prints diagnostics. Настройки берутся из metalint.toml (ищется вверх от
текущего каталога) и перекрываются флагами.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, out, err := buildRunConfig(args)
		if err != nil {
			return err
		}

		res, err := analyzer.Run(cfg)
		if err != nil {
			return err
		}

		switch out.format {
		case "golden":
			text := diag.FormatGolden(res.Bag.Items(), res.FileSet, out.notes)
			if text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
		case "json":
			err := diagfmt.JSON(cmd.OutOrStdout(), res.Bag, res.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         out.pathMode,
				IncludeNotes:     out.notes,
				NoWarnings:       out.noWarnings,
			})
			if err != nil {
				return err
			}
		case "pretty", "":
			diagfmt.Pretty(cmd.OutOrStdout(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:      useColor(cmd, os.Stdout),
				PathMode:   out.pathMode,
				ShowNotes:  out.notes,
				NoWarnings: out.noWarnings,
			})
		default:
			return fmt.Errorf("unsupported format %q (must be pretty, json or golden)", out.format)
		}

		if res.Bag.HasErrors() {
			// диагностики уже напечатаны, не дублируем их текстом ошибки
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return fmt.Errorf("analysis found errors")
		}
		return nil
	},
}

type outputConfig struct {
	format     string
	pathMode   diagfmt.PathMode
	noWarnings bool
	notes      bool
}

// buildRunConfig merges manifest values with command-line flags.
// Порядок приоритета: флаг, манифест, умолчание.
func buildRunConfig(args []string) (analyzer.Config, outputConfig, error) {
	var cfg analyzer.Config
	out := outputConfig{notes: analyzeNotes}

	var m *Manifest
	if path, ok := findManifest("."); ok {
		loaded, err := loadManifest(path)
		if err != nil {
			return cfg, out, err
		}
		m = loaded
	}

	switch {
	case len(args) == 1:
		cfg.Root = args[0]
	case m != nil && m.Corpus.Root != "":
		cfg.Root = m.Corpus.Root
	default:
		cfg.Root = "."
	}

	cfg.Defines = make(map[string]string)
	if m != nil {
		for k, v := range m.Defines {
			cfg.Defines[k] = v
		}
		cfg.SearchRoots = m.Corpus.SearchRoots
		cfg.MaxDiagnostics = m.Output.MaxDiagnostics
		out.format = m.Output.Format
		out.noWarnings = m.Output.NoWarnings
		if m.Output.Fullpath {
			out.pathMode = diagfmt.PathModeAbsolute
		}
	}

	for _, def := range analyzeDefines {
		name, value, found := strings.Cut(def, "=")
		if name == "" {
			return cfg, out, fmt.Errorf("invalid define %q", def)
		}
		if !found {
			value = "1"
		}
		cfg.Defines[name] = value
	}

	if len(analyzeRoots) > 0 {
		cfg.SearchRoots = analyzeRoots
	}
	cfg.Jobs = analyzeJobs
	if analyzeMax > 0 {
		cfg.MaxDiagnostics = analyzeMax
	}
	if analyzeFormat != "" {
		out.format = analyzeFormat
	}
	if analyzeNoWarn {
		out.noWarnings = true
	}
	if analyzeFull {
		out.pathMode = diagfmt.PathModeAbsolute
	}
	return cfg, out, nil
}
