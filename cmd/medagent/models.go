package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the selectable models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range cfg.LLM.Models {
				mark := " "
				if m == cfg.LLM.DefaultModel {
					mark = "*"
				}
				if _, err := fmt.Fprintf(out, "%s %s\n", mark, m); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
