package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/uwsgicfg/config"
	"github.com/angeloszaimis/uwsgicfg/internal/render"
)

var (
	renderFormat string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: "Produce an equivalent canonical document or command line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		switch renderFormat {
		case "ini":
			doc := render.Document(cfg)

			if renderOut != "" {
				if err := doc.SaveAtomic(renderOut); err != nil {
					return err
				}

				log.Info("wrote canonical document", "file", renderOut)
				return nil
			}

			data, err := doc.Bytes()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil

		case "args":
			if renderOut != "" {
				return fmt.Errorf("--out is only supported with --format ini")
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(render.Args(cfg), " "))
			return nil

		default:
			return fmt.Errorf("unknown format %q: want ini or args", renderFormat)
		}
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderFormat, "format", "ini", "output format: ini or args")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "write the document to a file instead of stdout")
}
