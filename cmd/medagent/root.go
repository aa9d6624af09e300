package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath      string
	envFiles        []string
	revealReasoning bool
	logLevel        string
}

func newRootCmd() *cobra.Command {
	opts := new(rootOptions)
	cmd := &cobra.Command{
		Use:   "medagent",
		Short: "Medical image analysis with a vision agent and a research agent",
		Long: `medagent sends a medical image to a vision model for a diagnostic style
analysis, then lets a research agent search the web for supporting references.

This tool is for educational purposes only and does not replace professional
medical evaluation.`,
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./medagent.yaml or ./configs/medagent.yaml)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	flags.BoolVar(&opts.revealReasoning, "reveal-reasoning", false, "show the model reasoning spans in the document")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log.level")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newServeCmd(opts),
		newModelsCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}
