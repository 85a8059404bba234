package provider

import (
	"context"
	"strings"

	"github.com/mmichie/slidegen/pkg/config"
	"github.com/mmichie/slidegen/pkg/httputil"
)

const (
	lmStudioName           = "lmstudio"
	lmStudioDefaultBaseURL = "http://localhost:1234/v1"
	lmStudioDefaultModel   = "local-model"
)

// LMStudioProvider generates prompts through LM Studio's OpenAI-compatible
// server. It cannot generate images.
type LMStudioProvider struct {
	config   config.Config
	boundary boundary
}

// NewLMStudioProvider creates an LMStudio backend. No credentials are needed.
func NewLMStudioProvider(cfg config.Config) (*LMStudioProvider, error) {
	cfg.BaseURL = strings.TrimRight(config.FirstNonEmpty(cfg.BaseURL, lmStudioDefaultBaseURL), "/")
	cfg.Model = config.FirstNonEmpty(cfg.Model, lmStudioDefaultModel)

	return &LMStudioProvider{
		config:   cfg,
		boundary: newBoundary(lmStudioName, "LM Studio", true, cfg.Timeout, cfg.ImageTimeout),
	}, nil
}

func (p *LMStudioProvider) Name() string                   { return lmStudioName }
func (p *LMStudioProvider) SupportsImageGeneration() bool  { return false }
func (p *LMStudioProvider) SupportsPromptGeneration() bool { return true }

// GeneratePrompt implements PromptGenerator
func (p *LMStudioProvider) GeneratePrompt(ctx context.Context, request PromptRequest) AIResponse {
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

// GenerateImage always fails without contacting the server
func (p *LMStudioProvider) GenerateImage(ctx context.Context, request ImageRequest) AIResponse {
	return p.boundary.unsupportedImage()
}

// HealthCheck pings the models list
func (p *LMStudioProvider) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout(p.config))
	defer cancel()

	if _, err := httputil.Get(ctx, p.config.BaseURL+"/models", ""); err != nil {
		p.boundary.logger.WithError(err).Debug("health check failed")
		return false
	}
	return true
}
