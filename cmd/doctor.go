package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/angeloszaimis/uwsgicfg/config"
	"github.com/angeloszaimis/uwsgicfg/internal/doctor"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor <document>",
	Short: "Check the host against what the document references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		results := doctor.New(afero.NewOsFs()).Run(cfg)

		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", r.Status, r.Name, r.Detail)
		}

		if doctor.Failed(results) {
			return fmt.Errorf("host is missing resources the document references")
		}

		return nil
	},
}
