// Package pipeline runs the per-slide prompt → image → save chain for every
// slide concurrently.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mmichie/slidegen/pkg/imagefile"
	"github.com/mmichie/slidegen/pkg/provider"
	"github.com/mmichie/slidegen/pkg/slides"
)

// GenerationResult is the outcome for one slide. A run produces exactly one
// per input slide.
type GenerationResult struct {
	Slide     slides.SlideInfo
	Success   bool
	ImagePath string
	Error     string
	// Prompt is kept whenever prompt generation succeeded, even if a later
	// stage failed
	Prompt string
	Theme  string
	Style  string
}

// SaveFunc persists image bytes and returns the written path
type SaveFunc func(data []byte, filename, dir string) (string, error)

// Pipeline holds the providers and settings shared by every chain in a run.
// It is safe for concurrent use.
type Pipeline struct {
	prompts   provider.PromptGenerator
	images    provider.ImageGenerator
	outputDir string
	theme     string
	style     string
	runID     string
	logger    logrus.FieldLogger
	metrics   *Metrics
	save      SaveFunc
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithTheme overrides the default prompt theme
func WithTheme(theme string) Option {
	return func(p *Pipeline) {
		p.theme = theme
	}
}

// WithStyle overrides the default prompt style
func WithStyle(style string) Option {
	return func(p *Pipeline) {
		p.style = style
	}
}

// WithRunID fixes the run id attached to log entries; by default each Run
// generates its own
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		p.runID = id
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}

// WithSaveFunc replaces imagefile.Save
func WithSaveFunc(save SaveFunc) Option {
	return func(p *Pipeline) {
		p.save = save
	}
}

// New creates a pipeline writing images into outputDir
func New(prompts provider.PromptGenerator, images provider.ImageGenerator, outputDir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		prompts:   prompts,
		images:    images,
		outputDir: outputDir,
		logger:    logrus.StandardLogger(),
		save:      imagefile.Save,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run processes every slide concurrently and returns one result per slide in
// input order. Slide failures are reported in the results, never as an
// error. If ctx is cancelled before the run completes, Run returns no
// results and ctx.Err().
func (p *Pipeline) Run(ctx context.Context, slideList []slides.SlideInfo) ([]GenerationResult, error) {
	runID := p.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := p.logger.WithField("run_id", runID)
	logger.WithField("slides", len(slideList)).Info("starting generation run")

	type indexedResult struct {
		index  int
		result GenerationResult
	}
	resultChan := make(chan indexedResult, len(slideList))

	var wg sync.WaitGroup
	wg.Add(len(slideList))

	for i, slide := range slideList {
		go func(index int, slide slides.SlideInfo) {
			defer wg.Done()
			resultChan <- indexedResult{index: index, result: p.process(ctx, slide, logger)}
		}(i, slide)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]GenerationResult, len(slideList))
	for collected := 0; collected < len(slideList); {
		select {
		case <-ctx.Done():
			logger.Warn("generation run cancelled")
			return nil, ctx.Err()
		case r := <-resultChan:
			results[r.index] = r.result
			collected++
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("generation run cancelled")
		return nil, err
	}

	logger.WithField("successful", countSuccessful(results)).Info("generation run finished")
	return results, nil
}

// process runs one chain. It never panics and never affects other chains.
func (p *Pipeline) process(ctx context.Context, slide slides.SlideInfo, logger logrus.FieldLogger) (result GenerationResult) {
	logger = logger.WithFields(logrus.Fields{"slide": slide.Title, "index": slide.Index})
	result = GenerationResult{Slide: slide, Theme: p.theme, Style: p.style}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.ImagePath = ""
			result.Error = fmt.Sprint(r)
			logger.WithField("panic", r).Error("slide chain panicked")
		}
	}()

	promptRequest := provider.NewPromptRequest(slide.Title)
	if p.theme != "" {
		promptRequest.Theme = p.theme
	}
	if p.style != "" {
		promptRequest.Style = p.style
	}

	started := time.Now()
	promptResp := p.prompts.GeneratePrompt(ctx, promptRequest)
	p.metrics.observeStage(StagePrompt, started)
	if !promptResp.Success {
		return p.fail(logger, result, StagePrompt, OutcomePromptFailed, promptResp.Error)
	}
	result.Prompt = promptResp.Content
	logger.WithField("stage", StagePrompt).Debug("prompt generated")

	imageRequest := provider.NewImageRequest(promptResp.Content)
	if p.style != "" {
		imageRequest.Style = p.style
	}

	started = time.Now()
	imageResp := p.images.GenerateImage(ctx, imageRequest)
	p.metrics.observeStage(StageImage, started)
	if !imageResp.Success {
		return p.fail(logger, result, StageImage, OutcomeImageFailed, imageResp.Error)
	}

	started = time.Now()
	path, err := p.save(imageResp.ImageData, imagefile.FilenameFor(slide.Title), p.outputDir)
	p.metrics.observeStage(StageSave, started)
	if err != nil {
		return p.fail(logger, result, StageSave, OutcomeSaveFailed, err.Error())
	}

	result.Success = true
	result.ImagePath = path
	p.metrics.countOutcome(OutcomeSuccess)
	logger.WithField("path", path).Info("slide image saved")
	return result
}

func (p *Pipeline) fail(logger logrus.FieldLogger, result GenerationResult, stage, outcome, message string) GenerationResult {
	if message == "" {
		message = "unknown error"
	}
	result.Success = false
	result.Error = message
	p.metrics.countOutcome(outcome)
	logger.WithFields(logrus.Fields{"stage": stage, "error": message}).Warn("slide failed")
	return result
}

func countSuccessful(results []GenerationResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}
