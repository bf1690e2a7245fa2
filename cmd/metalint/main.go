package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"metalint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "metalint",
	Short: "Static analyzer for shading-language header corpora",
	Long: `metalint preprocesses, resolves and checks a directory of
shading-language headers: conditional compilation, include graphs,
declaration extraction and overload resolution.`,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor резолвит значение флага --color для потока out.
func useColor(cmd *cobra.Command, out *os.File) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return !color.NoColor && isTerminal(out)
	}
}
