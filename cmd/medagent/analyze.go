package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/medagent/components/imaging"
	"github.com/bububa/medagent/pipeline"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		model  string
		asHTML bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a medical image and print the markdown document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			selected, err := a.runtime.SelectModel(model)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			result, err := a.pipeline.Run(ctx, &imaging.RawImage{Name: filepath.Base(args[0]), Data: data}, selected)
			if err != nil {
				return err
			}
			doc := result.Document
			if asHTML {
				doc = pipeline.RenderHTML(doc)
			}
			if output != "" {
				if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
					return err
				}
				a.log.Info("document written", zap.String("path", output))
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), doc)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&model, "model", "m", "", "model id, one of llm.models (default llm.default_model)")
	flags.BoolVar(&asHTML, "html", false, "render the document as HTML")
	flags.StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")
	return cmd
}
