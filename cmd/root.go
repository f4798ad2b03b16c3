package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/uwsgicfg/pkg/logger"
)

const version = "0.1.0"

var (
	logLevel  string
	logFormat string

	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "uwsgicfg",
	Short:   "Inspect, validate and render uwsgi deployment documents",
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(logLevel, logFormat)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text or json")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(serveCmd)
}
