package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "SEO content portal",
	Long: `Serves the content portal API over the blog, GMB post and review reply
sheets, falling back to generated data when the sheets are unavailable.

Configuration is read from the environment and, when PORTAL_CONFIG is set,
from a YAML file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, exportCmd, filtersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
