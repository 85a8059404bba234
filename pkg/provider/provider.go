// Package provider defines the capability model shared by every AI backend
// and the four backend implementations: OpenAI, Gemini, Ollama and LMStudio.
package provider

import (
	"context"
)

//go:generate mockgen -destination=./mocks/mock_provider.go -package=mocks github.com/mmichie/slidegen/pkg/provider Provider

const (
	DefaultTheme       = "professional, modern"
	DefaultStyle       = "landscape photography, natural lighting"
	DefaultAspectRatio = "16:9"
	DefaultQuality     = "standard"
)

// PromptRequest asks a prompt provider to describe an image for one slide
type PromptRequest struct {
	SlideTitle   string
	SlideContent string
	Theme        string
	Style        string
	AspectRatio  string
}

// NewPromptRequest returns a request for title with the default theme, style
// and aspect ratio
func NewPromptRequest(title string) PromptRequest {
	return PromptRequest{
		SlideTitle:  title,
		Theme:       DefaultTheme,
		Style:       DefaultStyle,
		AspectRatio: DefaultAspectRatio,
	}
}

func (r PromptRequest) withDefaults() PromptRequest {
	if r.Theme == "" {
		r.Theme = DefaultTheme
	}
	if r.Style == "" {
		r.Style = DefaultStyle
	}
	if r.AspectRatio == "" {
		r.AspectRatio = DefaultAspectRatio
	}
	return r
}

// ImageRequest asks an image provider to render a prompt
type ImageRequest struct {
	Prompt      string
	Style       string
	AspectRatio string
	Quality     string
	// Size overrides the size derived from AspectRatio when set
	Size string
}

// NewImageRequest returns a request for prompt with the default aspect ratio
// and quality
func NewImageRequest(prompt string) ImageRequest {
	return ImageRequest{
		Prompt:      prompt,
		AspectRatio: DefaultAspectRatio,
		Quality:     DefaultQuality,
	}
}

func (r ImageRequest) withDefaults() ImageRequest {
	if r.AspectRatio == "" {
		r.AspectRatio = DefaultAspectRatio
	}
	if r.Quality == "" {
		r.Quality = DefaultQuality
	}
	return r
}

// AIResponse is the uniform result envelope returned by every backend call.
// On success exactly one of Content or ImageData is set; on failure only
// Error is.
type AIResponse struct {
	Success   bool
	Content   string
	ImageData []byte
	Error     string
	Metadata  map[string]string
}

// TextResponse is a successful prompt generation result
func TextResponse(content string) AIResponse {
	return AIResponse{Success: true, Content: content}
}

// ImageResponse is a successful image generation result
func ImageResponse(data []byte) AIResponse {
	return AIResponse{Success: true, ImageData: data}
}

// Failure is a failed result carrying a human-readable message
func Failure(message string) AIResponse {
	return AIResponse{Error: message}
}

// WithMetadata returns a copy of r with key set in its metadata
func (r AIResponse) WithMetadata(key, value string) AIResponse {
	metadata := make(map[string]string, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		metadata[k] = v
	}
	metadata[key] = value
	r.Metadata = metadata
	return r
}

// PromptGenerator turns a slide into a descriptive image prompt
type PromptGenerator interface {
	GeneratePrompt(ctx context.Context, request PromptRequest) AIResponse
}

// ImageGenerator renders a prompt into image bytes
type ImageGenerator interface {
	GenerateImage(ctx context.Context, request ImageRequest) AIResponse
}

// Provider is a complete AI backend. GeneratePrompt and GenerateImage never
// return errors; failures are reported through AIResponse.
type Provider interface {
	PromptGenerator
	ImageGenerator

	// Name returns the registry name of the backend
	Name() string

	SupportsImageGeneration() bool
	SupportsPromptGeneration() bool

	// HealthCheck reports whether the backend is reachable and usable
	HealthCheck(ctx context.Context) bool
}

// defaultHealthCheck issues a trivial prompt generation
func defaultHealthCheck(ctx context.Context, p PromptGenerator) bool {
	return p.GeneratePrompt(ctx, NewPromptRequest("Test")).Success
}
