package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tstl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tslc",
	Short: "TSL to Lua transpiler",
	Long:  `tslc compiles typed TSL sources into Lua chunks plus a runtime support bundle`,
}

// main registers subcommands and persistent flags, then executes the root
// command. Command errors exit with status 1; compile diagnostics set the
// exit code inside the build command itself.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(lualibCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color tri-state against the terminal.
func useColor(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stderr)
	}
}
