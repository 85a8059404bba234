package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmichie/slidegen/internal/workflow"
	"github.com/mmichie/slidegen/pkg/report"
)

// runDirectory processes a slide directory with the providers named in its
// config.yaml; the --prompt-provider and --image-provider flags do not apply
func runDirectory(cmd *cobra.Command, opts Options) error {
	metrics := newMetrics(opts)
	w := &workflow.Workflow{
		Create:  createFunc(opts.Env),
		Logger:  logrus.StandardLogger(),
		Metrics: metrics,
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processing directory %s...\n", opts.Directory)

	run, err := w.ProcessDirectory(cmd.Context(), opts.Directory)
	if err != nil {
		return err
	}

	if err := report.PrintResults(out, run.Results, useSymbols(out)); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nGallery: %s\nLog: %s\n", run.GalleryPath, run.LogPath)

	return writeMetrics(metrics, opts)
}
