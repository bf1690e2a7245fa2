package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"metalint/internal/diag"
	"metalint/internal/diagfmt"
	"metalint/internal/lexer"
	"metalint/internal/source"
)

var tokenizeShowSpans bool

func init() {
	tokenizeCmd.Flags().BoolVar(&tokenizeShowSpans, "spans", false, "include byte offsets")
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Dump the token stream of one header (debugging aid)",
	Long: `Tokenize lexes a single file without preprocessing and prints one
token per line. Полезно при разборе жалоб лексера на конкретный файл.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, name := filepath.Split(args[0])
		if dir == "" {
			dir = "."
		}
		fset := source.NewFileSetWithRoot(dir)
		id, err := fset.Load(name)
		if err != nil {
			return err
		}
		file := fset.Get(id)

		bag := diag.NewBag(0)
		opts := lexer.Options{Reporter: lexer.DiagReporter{R: diag.BagReporter{Bag: bag}}}
		toks := lexer.New(file, opts).Tokens()

		w := cmd.OutOrStdout()
		for _, t := range toks {
			start, _ := fset.Resolve(t.Span)
			if tokenizeShowSpans {
				fmt.Fprintf(w, "%4d:%-3d [%d..%d) %-12s %q\n",
					start.Line, start.Col, t.Span.Start, t.Span.End, t.Kind, t.Text)
				continue
			}
			fmt.Fprintf(w, "%4d:%-3d %-12s %q\n", start.Line, start.Col, t.Kind, t.Text)
		}

		if bag.Len() > 0 {
			bag.Sort()
			diagfmt.Pretty(w, bag, fset, diagfmt.PrettyOpts{
				Color:     useColor(cmd, os.Stdout),
				ShowNotes: true,
			})
		}
		return nil
	},
}
