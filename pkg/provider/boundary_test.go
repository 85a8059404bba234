package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	sgerrors "github.com/mmichie/slidegen/pkg/errors"
	"github.com/mmichie/slidegen/pkg/httputil"
)

func TestBoundaryClassify(t *testing.T) {
	hosted := newBoundary("openai", "OpenAI", false, time.Minute, time.Minute)
	local := newBoundary("ollama", "Ollama", true, time.Minute, time.Minute)

	var syntaxErr error = &json.SyntaxError{}
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}

	tests := []struct {
		name     string
		boundary boundary
		stage    stage
		err      error
		want     string
	}{
		{"prompt deadline", hosted, promptStage, fmt.Errorf("post: %w", context.DeadlineExceeded), "Request timed out"},
		{"image deadline", hosted, imageStage, context.DeadlineExceeded, "Image generation timed out"},
		{"status", hosted, promptStage, &httputil.StatusError{StatusCode: 500, Body: "oops"}, "API error 500: oops"},
		{"genai status", hosted, imageStage, genai.APIError{Code: 403, Message: "denied"}, "API error 403: denied"},
		{"malformed", hosted, promptStage, malformed("missing expected fields: x"), "Malformed response: missing expected fields: x"},
		{"no image data", hosted, imageStage, malformed(noImageData), "No image data in response"},
		{"json", hosted, promptStage, syntaxErr, "Malformed response: " + syntaxErr.Error()},
		{"refused local", local, promptStage, refused, "Could not connect to Ollama. Is it running?"},
		{"refused hosted", hosted, promptStage, refused, "Connection error: " + refused.Error()},
		{"other prompt", hosted, promptStage, errors.New("boom"), "Error generating prompt: boom"},
		{"other image", hosted, imageStage, errors.New("boom"), "Error generating image: boom"},
		{"unsupported image", local, imageStage, sgerrors.New("ollama", "generate_image", sgerrors.ErrUnsupported),
			"Ollama provider doesn't support image generation. Use a different provider for images."},
		{"unsupported prompt", hosted, promptStage, sgerrors.ErrUnsupported, "OpenAI provider doesn't support prompt generation."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.boundary.classify(tt.stage, tt.err))
		})
	}
}

func TestBoundaryRecoversPanics(t *testing.T) {
	b := newBoundary("openai", "OpenAI", false, time.Minute, time.Minute)

	resp := b.prompt(context.Background(), func(ctx context.Context) (AIResponse, error) {
		panic("kaboom")
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "Error generating prompt: panic: kaboom", resp.Error)

	resp = b.image(context.Background(), func(ctx context.Context) (AIResponse, error) {
		var m map[string]int
		m["x"] = 1
		return AIResponse{}, nil
	})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Error generating image: panic:")
}

func TestBoundaryAppliesTimeouts(t *testing.T) {
	b := newBoundary("openai", "OpenAI", false, 10*time.Millisecond, 20*time.Millisecond)

	resp := b.prompt(context.Background(), func(ctx context.Context) (AIResponse, error) {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 10*time.Millisecond)
		<-ctx.Done()
		return AIResponse{}, ctx.Err()
	})
	assert.Equal(t, "Request timed out", resp.Error)

	resp = b.image(context.Background(), func(ctx context.Context) (AIResponse, error) {
		<-ctx.Done()
		return AIResponse{}, ctx.Err()
	})
	assert.Equal(t, "Image generation timed out", resp.Error)
}

func TestBoundaryTagsProvider(t *testing.T) {
	b := newBoundary("gemini", "Gemini", false, 0, 0)
	resp := b.prompt(context.Background(), func(ctx context.Context) (AIResponse, error) {
		_, hasDeadline := ctx.Deadline()
		assert.False(t, hasDeadline)
		return TextResponse("hi").WithMetadata("model", "m"), nil
	})
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]string{"provider": "gemini", "model": "m"}, resp.Metadata)
}

func TestResponseConstructors(t *testing.T) {
	text := TextResponse("prompt")
	assert.True(t, text.Success)
	assert.Equal(t, "prompt", text.Content)
	assert.Nil(t, text.ImageData)

	image := ImageResponse([]byte{1})
	assert.True(t, image.Success)
	assert.Empty(t, image.Content)

	failure := Failure("bad")
	assert.False(t, failure.Success)
	assert.Equal(t, "bad", failure.Error)
	assert.Empty(t, failure.Content)
	assert.Nil(t, failure.ImageData)

	original := TextResponse("x").WithMetadata("a", "1")
	derived := original.WithMetadata("b", "2")
	assert.Len(t, original.Metadata, 1)
	assert.Len(t, derived.Metadata, 2)
}

func TestRequestDefaults(t *testing.T) {
	req := NewPromptRequest("Title")
	assert.Equal(t, "professional, modern", req.Theme)
	assert.Equal(t, "landscape photography, natural lighting", req.Style)
	assert.Equal(t, "16:9", req.AspectRatio)

	filled := PromptRequest{SlideTitle: "T", Theme: "retro"}.withDefaults()
	assert.Equal(t, "retro", filled.Theme)
	assert.Equal(t, DefaultStyle, filled.Style)

	image := NewImageRequest("p")
	assert.Equal(t, "16:9", image.AspectRatio)
	assert.Equal(t, "standard", image.Quality)
}

func TestRenderInstructions(t *testing.T) {
	in, err := renderInstructions(PromptRequest{SlideTitle: "Team Velocity", Theme: "retro", Style: "film grain"})
	assert.NoError(t, err)

	assert.Contains(t, in.System, "Always specify 16:9 aspect ratio")
	assert.Contains(t, in.User, `metaphorically represents: "Team Velocity"`)
	assert.Contains(t, in.User, "Additional context: No additional context")
	assert.Contains(t, in.User, "Theme: retro")
	assert.Contains(t, in.User, "Style preferences: film grain")
	assert.Contains(t, in.Combined(), in.System+"\n\n"+in.User)

	withContext, err := renderInstructions(PromptRequest{SlideTitle: "x", SlideContent: "three bullets"})
	assert.NoError(t, err)
	assert.Contains(t, withContext.User, "Additional context: three bullets")
}
