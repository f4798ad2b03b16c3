package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/uwsgicfg/config"
	"github.com/angeloszaimis/uwsgicfg/internal/inifile"
	"github.com/angeloszaimis/uwsgicfg/internal/watch"
)

var (
	validateStrict bool
	validateWatch  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <document>",
	Short: "Check a deployment document against the typed record rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if !validateWatch {
			return runValidate(cmd.OutOrStdout(), path)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		// In watch mode an invalid document is reported, not fatal; the
		// next save gets another chance.
		report := func() {
			if err := runValidate(cmd.OutOrStdout(), path); err != nil {
				log.Error("document is invalid", "file", path, "err", err)
			}
		}

		report()

		return watch.File(ctx, log, path, 0, report)
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"treat keys outside the typed record as errors")
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false,
		"revalidate whenever the document changes")
}

func runValidate(out io.Writer, path string) error {
	doc, err := inifile.Load(path)
	if err != nil {
		return err
	}

	unknown := config.UnknownKeys(doc)
	for _, key := range unknown {
		log.Warn("key not covered by the typed record", "key", key)
	}

	if validateStrict && len(unknown) > 0 {
		return fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}

	cfg, err := config.FromDocument(doc)
	if err != nil {
		return err
	}

	endpoint := cfg.HTTP
	if endpoint == "" {
		endpoint = cfg.Socket
	}

	fmt.Fprintf(out, "%s: valid (%s, %d workers, %d static maps)\n",
		path, endpoint, cfg.Processes, len(cfg.StaticMaps))

	return nil
}
