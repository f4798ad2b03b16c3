package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/uwsgicfg/internal/diffcfg"
	"github.com/angeloszaimis/uwsgicfg/internal/inifile"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two deployment documents key by key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldDoc, err := inifile.Load(args[0])
		if err != nil {
			return err
		}

		newDoc, err := inifile.Load(args[1])
		if err != nil {
			return err
		}

		entries := diffcfg.Documents(oldDoc, newDoc)
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "documents are equivalent")
			return nil
		}

		for _, entry := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), entry.String())
		}

		return fmt.Errorf("documents differ in %d keys", len(entries))
	},
}
