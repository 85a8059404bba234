package provider

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/mmichie/slidegen/pkg/config"
	sgerrors "github.com/mmichie/slidegen/pkg/errors"
	"github.com/mmichie/slidegen/pkg/httputil"
)

const (
	openAIName              = "openai"
	openAIDefaultBaseURL    = "https://api.openai.com/v1"
	openAIDefaultModel      = "gpt-4"
	openAIDefaultImageModel = "dall-e-3"

	promptTemperature = 0.7
	promptMaxTokens   = 150
)

// imageSizes maps aspect ratios onto the sizes the images endpoint accepts
var imageSizes = map[string]string{
	"16:9": "1792x1024",
	"1:1":  "1024x1024",
	"9:16": "1024x1792",
}

const defaultImageSize = "1792x1024"

// ImageSize returns the OpenAI image size for an aspect ratio
func ImageSize(aspectRatio string) string {
	if size, ok := imageSizes[aspectRatio]; ok {
		return size
	}
	return defaultImageSize
}

// chatMessage and friends describe the OpenAI-compatible chat completion
// wire format, which LMStudio also speaks.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chatCompletion posts a system+user conversation and returns the trimmed
// content of the first choice
func chatCompletion(ctx context.Context, baseURL, apiKey, model string, in instructions) (string, error) {
	request := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: in.System},
			{Role: "user", Content: in.User},
		},
		Temperature: promptTemperature,
		MaxTokens:   promptMaxTokens,
	}

	var response chatResponse
	err := httputil.DecodeJSON(ctx, httputil.RequestDetails{
		URL:         strings.TrimRight(baseURL, "/") + "/chat/completions",
		APIKey:      apiKey,
		RequestBody: request,
	}, &response)
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", malformed("missing expected fields: choices")
	}
	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", malformed("missing expected fields: message content")
	}
	return content, nil
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// OpenAIProvider generates prompts with chat completions and images with the
// images endpoint
type OpenAIProvider struct {
	config   config.Config
	boundary boundary
}

// NewOpenAIProvider creates an OpenAI backend. An API key is required.
func NewOpenAIProvider(cfg config.Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, sgerrors.Newf(openAIName, "create", sgerrors.ErrInvalidConfig, "OpenAI API key is required")
	}

	cfg.BaseURL = strings.TrimRight(config.FirstNonEmpty(cfg.BaseURL, openAIDefaultBaseURL), "/")
	cfg.Model = config.FirstNonEmpty(cfg.Model, openAIDefaultModel)
	cfg.ImageModel = config.FirstNonEmpty(cfg.ImageModel, openAIDefaultImageModel)

	return &OpenAIProvider{
		config:   cfg,
		boundary: newBoundary(openAIName, "OpenAI", false, cfg.Timeout, cfg.ImageTimeout),
	}, nil
}

func (p *OpenAIProvider) Name() string                   { return openAIName }
func (p *OpenAIProvider) SupportsImageGeneration() bool  { return true }
func (p *OpenAIProvider) SupportsPromptGeneration() bool { return true }

// GeneratePrompt implements PromptGenerator
func (p *OpenAIProvider) GeneratePrompt(ctx context.Context, request PromptRequest) AIResponse {
	return p.boundary.prompt(ctx, func(ctx context.Context) (AIResponse, error) {
		in, err := renderInstructions(request)
		if err != nil {
			return AIResponse{}, err
		}

		content, err := chatCompletion(ctx, p.config.BaseURL, p.config.APIKey, p.config.Model, in)
		if err != nil {
			return AIResponse{}, err
		}
		return TextResponse(content).WithMetadata("model", p.config.Model), nil
	})
}

// GenerateImage implements ImageGenerator
func (p *OpenAIProvider) GenerateImage(ctx context.Context, request ImageRequest) AIResponse {
	request = request.withDefaults()
	size := config.FirstNonEmpty(request.Size, ImageSize(request.AspectRatio))

	return p.boundary.image(ctx, func(ctx context.Context) (AIResponse, error) {
		var response openAIImageResponse
		err := httputil.DecodeJSON(ctx, httputil.RequestDetails{
			URL:    p.config.BaseURL + "/images/generations",
			APIKey: p.config.APIKey,
			RequestBody: openAIImageRequest{
				Model:          p.config.ImageModel,
				Prompt:         request.Prompt,
				N:              1,
				Size:           size,
				Quality:        request.Quality,
				ResponseFormat: "b64_json",
			},
		}, &response)
		if err != nil {
			return AIResponse{}, err
		}

		if len(response.Data) == 0 || response.Data[0].B64JSON == "" {
			return AIResponse{}, malformed(noImageData)
		}

		data, err := base64.StdEncoding.DecodeString(response.Data[0].B64JSON)
		if err != nil {
			return AIResponse{}, malformed("invalid base64 image data: %v", err)
		}

		return ImageResponse(data).
			WithMetadata("model", p.config.ImageModel).
			WithMetadata("size", size).
			WithMetadata("mime_type", "image/png"), nil
	})
}

// HealthCheck issues a trivial prompt generation
func (p *OpenAIProvider) HealthCheck(ctx context.Context) bool {
	return defaultHealthCheck(ctx, p)
}
