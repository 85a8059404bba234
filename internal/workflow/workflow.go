// Package workflow wires slide extraction, provider construction, the
// generation pipeline and reporting into the end-to-end runs the CLI offers.
package workflow

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mmichie/slidegen/pkg/pipeline"
	"github.com/mmichie/slidegen/pkg/provider"
	"github.com/mmichie/slidegen/pkg/report"
	"github.com/mmichie/slidegen/pkg/slides"
)

// ErrNoSlides is returned when the input yields no slides
var ErrNoSlides = errors.New("no slides found")

// CreateFunc constructs a provider by registry name
type CreateFunc func(name string) (provider.Provider, error)

// Settings selects providers and prompt overrides for one run
type Settings struct {
	PromptProvider string
	ImageProvider  string
	OutputDir      string
	Theme          string
	Style          string
}

// Workflow runs generation jobs. Create is required; Logger and Metrics are
// optional.
type Workflow struct {
	Create  CreateFunc
	Logger  logrus.FieldLogger
	Metrics *pipeline.Metrics
}

// Run is the outcome of a completed generation run
type Run struct {
	ID      string
	Results []pipeline.GenerationResult
}

// Generate constructs both providers and runs the pipeline over slideList.
// Configuration problems are returned before any generation starts.
func (w *Workflow) Generate(ctx context.Context, slideList []slides.SlideInfo, settings Settings) (*Run, error) {
	if len(slideList) == 0 {
		return nil, ErrNoSlides
	}

	prompts, err := w.Create(settings.PromptProvider)
	if err != nil {
		return nil, fmt.Errorf("error creating prompt provider: %w", err)
	}
	images, err := w.Create(settings.ImageProvider)
	if err != nil {
		return nil, fmt.Errorf("error creating image provider: %w", err)
	}

	runID := uuid.NewString()
	logger := w.logger().WithFields(logrus.Fields{
		"prompt_provider": settings.PromptProvider,
		"image_provider":  settings.ImageProvider,
	})

	p := pipeline.New(prompts, images, settings.OutputDir,
		pipeline.WithTheme(settings.Theme),
		pipeline.WithStyle(settings.Style),
		pipeline.WithRunID(runID),
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(w.Metrics),
	)

	results, err := p.Run(ctx, slideList)
	if err != nil {
		return nil, err
	}

	return &Run{ID: runID, Results: results}, nil
}

// DirectoryRun is the outcome of ProcessDirectory
type DirectoryRun struct {
	Run
	Config      slides.DirectoryConfig
	GalleryPath string
	LogPath     string
}

// ProcessDirectory generates images for dir/slides.md using the providers
// named in dir/config.yaml, writing images and both reports into dir
func (w *Workflow) ProcessDirectory(ctx context.Context, dir string) (*DirectoryRun, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "directory not found: %s", dir)
		}
		return nil, errors.Wrapf(err, "error reading directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("not a directory: %s", dir)
	}

	cfg, slideList, err := slides.FromDirectory(dir)
	if err != nil {
		return nil, err
	}

	w.logger().WithFields(logrus.Fields{
		"directory": dir,
		"slides":    len(slideList),
		"theme":     cfg.Theme,
	}).Info("processing slide directory")

	run, err := w.Generate(ctx, slideList, Settings{
		PromptProvider: cfg.PromptProvider,
		ImageProvider:  cfg.ImageProvider,
		OutputDir:      dir,
		Theme:          cfg.Theme,
		Style:          cfg.Style,
	})
	if err != nil {
		return nil, err
	}

	galleryPath, err := report.WriteGallery(dir, run.Results)
	if err != nil {
		return nil, err
	}
	logPath, err := report.WriteLog(dir, run.Results, report.LogInfo{
		RunID:          run.ID,
		Theme:          cfg.Theme,
		Style:          cfg.Style,
		PromptProvider: cfg.PromptProvider,
		ImageProvider:  cfg.ImageProvider,
		Time:           time.Now(),
	})
	if err != nil {
		return nil, err
	}

	return &DirectoryRun{
		Run:         *run,
		Config:      cfg,
		GalleryPath: galleryPath,
		LogPath:     logPath,
	}, nil
}

func (w *Workflow) logger() logrus.FieldLogger {
	if w.Logger != nil {
		return w.Logger
	}
	return logrus.StandardLogger()
}
