package workflow

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sgerrors "github.com/mmichie/slidegen/pkg/errors"
	"github.com/mmichie/slidegen/pkg/provider"
	"github.com/mmichie/slidegen/pkg/provider/mocks"
	"github.com/mmichie/slidegen/pkg/report"
	"github.com/mmichie/slidegen/pkg/slides"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// setupTest returns a workflow whose Create hands out the two mocks and
// records requested names
func setupTest(t *testing.T) (*gomock.Controller, *Workflow, *mocks.MockProvider, *mocks.MockProvider, *[]string) {
	ctrl := gomock.NewController(t)
	prompts := mocks.NewMockProvider(ctrl)
	images := mocks.NewMockProvider(ctrl)
	var requested []string

	logger, _ := test.NewNullLogger()
	w := &Workflow{
		Logger: logger,
		Create: func(name string) (provider.Provider, error) {
			requested = append(requested, name)
			if len(requested) == 1 {
				return prompts, nil
			}
			return images, nil
		},
	}
	return ctrl, w, prompts, images, &requested
}

func TestGenerateTitlesEndToEnd(t *testing.T) {
	ctrl, w, prompts, images, requested := setupTest(t)
	defer ctrl.Finish()

	prompts.EXPECT().GeneratePrompt(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r provider.PromptRequest) provider.AIResponse {
			return provider.TextResponse("a quiet harbour at dawn for " + r.SlideTitle)
		}).Times(3)
	images.EXPECT().GenerateImage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r provider.ImageRequest) provider.AIResponse {
			assert.True(t, strings.HasPrefix(r.Prompt, "a quiet harbour at dawn for "))
			return provider.ImageResponse(pngBytes(t))
		}).Times(3)

	dir := t.TempDir()
	titles := []string{"Introduction", "Market Overview", "Q&A"}
	run, err := w.Generate(context.Background(), slides.FromTitles(titles), Settings{
		PromptProvider: "ollama",
		ImageProvider:  "openai",
		OutputDir:      dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ollama", "openai"}, *requested)

	wantFiles := []string{"Introduction.png", "Market_Overview.png", "QA.png"}
	require.Len(t, run.Results, 3)
	for i, r := range run.Results {
		assert.Equal(t, titles[i], r.Slide.Title)
		assert.Equal(t, i, r.Slide.Index)
		assert.True(t, r.Success, r.Error)
		assert.Equal(t, filepath.Join(dir, wantFiles[i]), r.ImagePath)
		assert.FileExists(t, r.ImagePath)
	}
	assert.Equal(t, "3/3 successful", report.Tally(run.Results))

	galleryPath, err := report.WriteGallery(dir, run.Results)
	require.NoError(t, err)
	gallery, err := os.ReadFile(galleryPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(gallery), "!["))
	assert.Contains(t, string(gallery), "![Introduction](Introduction.png)")
	assert.Contains(t, string(gallery), "![Market Overview](Market_Overview.png)")
	assert.Contains(t, string(gallery), "![Q&A](QA.png)")
}

func TestProcessDirectoryMissingSlides(t *testing.T) {
	ctrl, w, _, _, requested := setupTest(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "theme: \"retro\"\n")

	run, err := w.ProcessDirectory(context.Background(), dir)

	assert.Nil(t, run)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "slides.md")
	assert.Empty(t, *requested, "no providers are constructed")

	assert.NoFileExists(t, filepath.Join(dir, "slides-images.md"))
	assert.NoFileExists(t, filepath.Join(dir, "generation-log.md"))
}

func TestProcessDirectoryNotFound(t *testing.T) {
	ctrl, w, _, _, _ := setupTest(t)
	defer ctrl.Finish()

	missing := filepath.Join(t.TempDir(), "nope")
	_, err := w.ProcessDirectory(context.Background(), missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory not found: "+missing)
}

func TestProcessDirectory(t *testing.T) {
	ctrl, w, prompts, images, requested := setupTest(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "theme: \"retro\"\nprompt_provider: lmstudio\nimage_provider: gemini\n")
	writeFile(t, dir, "slides.md", "# Welcome\n\nintro\n\n# Roadmap\n")

	prompts.EXPECT().GeneratePrompt(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r provider.PromptRequest) provider.AIResponse {
			assert.Equal(t, "retro", r.Theme)
			if r.SlideTitle == "Roadmap" {
				return provider.Failure("Could not connect to LM Studio. Is it running?")
			}
			return provider.TextResponse("sunrise over " + r.SlideTitle)
		}).Times(2)
	images.EXPECT().GenerateImage(gomock.Any(), gomock.Any()).Return(provider.ImageResponse(pngBytes(t)))

	run, err := w.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"lmstudio", "gemini"}, *requested)
	assert.Equal(t, "retro", run.Config.Theme)
	assert.NotEmpty(t, run.ID)
	require.Len(t, run.Results, 2)
	assert.True(t, run.Results[0].Success)
	assert.Equal(t, filepath.Join(dir, "Welcome.png"), run.Results[0].ImagePath)
	assert.False(t, run.Results[1].Success)

	assert.FileExists(t, filepath.Join(dir, "Welcome.png"))

	gallery, err := os.ReadFile(run.GalleryPath)
	require.NoError(t, err)
	assert.Contains(t, string(gallery), "![Welcome](Welcome.png)")
	assert.Contains(t, string(gallery), "*Image generation failed: Could not connect to LM Studio. Is it running?*")

	log, err := os.ReadFile(run.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(log), "**Results:** 1/2 successful")
	assert.Contains(t, string(log), "**Run ID:** "+run.ID)
	assert.Contains(t, string(log), "**Prompt Provider:** lmstudio")
}

func TestProcessDirectoryNoSlides(t *testing.T) {
	ctrl, w, _, _, requested := setupTest(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	writeFile(t, dir, "slides.md", "just prose, no headers\n")

	_, err := w.ProcessDirectory(context.Background(), dir)
	assert.True(t, errors.Is(err, ErrNoSlides))
	assert.Empty(t, *requested)
}

func TestGenerateProviderConfigError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	w := &Workflow{
		Logger: logger,
		Create: func(name string) (provider.Provider, error) {
			return nil, sgerrors.Newf(name, "create", sgerrors.ErrInvalidConfig, "OpenAI API key is required")
		},
	}

	_, err := w.Generate(context.Background(), slides.FromTitles([]string{"x"}), Settings{PromptProvider: "openai", ImageProvider: "openai"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sgerrors.ErrInvalidConfig))
	assert.Contains(t, err.Error(), "error creating prompt provider")
}

func TestGenerateCancelled(t *testing.T) {
	ctrl, w, prompts, _, _ := setupTest(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	prompts.EXPECT().GeneratePrompt(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ provider.PromptRequest) provider.AIResponse {
			cancel()
			<-ctx.Done()
			return provider.Failure("cancelled")
		})

	run, err := w.Generate(ctx, slides.FromTitles([]string{"x"}), Settings{PromptProvider: "ollama", ImageProvider: "openai", OutputDir: t.TempDir()})
	assert.Nil(t, run)
	assert.True(t, errors.Is(err, context.Canceled))
}
