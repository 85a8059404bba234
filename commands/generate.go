package commands

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmichie/slidegen/internal/workflow"
	"github.com/mmichie/slidegen/pkg/pipeline"
	"github.com/mmichie/slidegen/pkg/report"
)

var errNoInput = errors.New("please provide --titles, --file, or --directory")

// Run dispatches to health-check, directory or titles/file mode
func Run(cmd *cobra.Command, opts Options) error {
	if opts.HealthCheck {
		return runHealthCheck(cmd, opts)
	}
	if opts.Directory != "" {
		return runDirectory(cmd, opts)
	}
	if len(opts.Titles) == 0 && opts.File == "" {
		return errNoInput
	}

	if err := validateProviders(opts.PromptProvider, opts.ImageProvider); err != nil {
		return err
	}

	slideList, err := loadSlides(opts)
	if err != nil {
		return err
	}
	if len(slideList) == 0 {
		return workflow.ErrNoSlides
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processing %d slides...\n", len(slideList))

	metrics := newMetrics(opts)
	w := &workflow.Workflow{
		Create:  createFunc(opts.Env),
		Logger:  logrus.StandardLogger(),
		Metrics: metrics,
	}

	run, err := w.Generate(cmd.Context(), slideList, workflow.Settings{
		PromptProvider: opts.PromptProvider,
		ImageProvider:  opts.ImageProvider,
		OutputDir:      opts.OutputDir,
		Theme:          opts.Theme,
		Style:          opts.Style,
	})
	if err != nil {
		return err
	}

	if err := report.PrintResults(out, run.Results, useSymbols(out)); err != nil {
		return err
	}
	return writeMetrics(metrics, opts)
}

func newMetrics(opts Options) *pipeline.Metrics {
	if opts.MetricsFile == "" {
		return nil
	}
	return pipeline.NewMetrics()
}

func writeMetrics(metrics *pipeline.Metrics, opts Options) error {
	if metrics == nil {
		return nil
	}
	if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
		return fmt.Errorf("error writing metrics file: %w", err)
	}
	return nil
}
