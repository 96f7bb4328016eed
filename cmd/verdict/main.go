package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"verdict/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Diagnostic expectation verifier",
	Long:  `Verdict reconciles expected-error/warning/note markers in source files against the diagnostics a compiler actually emitted`,
}

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-findings", 1000, "maximum number of findings to report per file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
