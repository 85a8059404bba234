package provider

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/mmichie/slidegen/pkg/config"
	sgerrors "github.com/mmichie/slidegen/pkg/errors"
)

const (
	geminiName              = "gemini"
	geminiDefaultModel      = "gemini-2.0-flash-exp"
	geminiDefaultImageModel = "imagen-3.0-generate-002"
)

// geminiModels is the part of the genai Models service the backend uses.
// *genai.Models satisfies it.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// GeminiProvider generates prompts with Gemini and images with Imagen
type GeminiProvider struct {
	config   config.Config
	models   geminiModels
	boundary boundary
}

// NewGeminiProvider creates a Gemini backend. An API key is required.
func NewGeminiProvider(cfg config.Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, sgerrors.Newf(geminiName, "create", sgerrors.ErrInvalidConfig, "Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, sgerrors.Wrap(err, geminiName, "create")
	}

	return newGeminiProvider(cfg, client.Models), nil
}

func newGeminiProvider(cfg config.Config, models geminiModels) *GeminiProvider {
	cfg.Model = config.FirstNonEmpty(cfg.Model, geminiDefaultModel)
	cfg.ImageModel = config.FirstNonEmpty(cfg.ImageModel, geminiDefaultImageModel)

	return &GeminiProvider{
		config:   cfg,
		models:   models,
		boundary: newBoundary(geminiName, "Gemini", false, cfg.Timeout, cfg.ImageTimeout),
	}
}

func (p *GeminiProvider) Name() string                   { return geminiName }
func (p *GeminiProvider) SupportsImageGeneration() bool  { return true }
func (p *GeminiProvider) SupportsPromptGeneration() bool { return true }

// GeneratePrompt implements PromptGenerator
func (p *GeminiProvider) GeneratePrompt(ctx context.Context, request PromptRequest) AIResponse {
	return p.boundary.prompt(ctx, func(ctx context.Context) (AIResponse, error) {
		in, err := renderInstructions(request)
		if err != nil {
			return AIResponse{}, err
		}

		resp, err := p.models.GenerateContent(ctx, p.config.Model, genai.Text(in.User), &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(in.System, genai.RoleUser),
			Temperature:       genai.Ptr[float32](promptTemperature),
			MaxOutputTokens:   promptMaxTokens,
		})
		if err != nil {
			return AIResponse{}, err
		}

		content := strings.TrimSpace(candidateText(resp))
		if content == "" {
			return AIResponse{}, malformed("missing expected fields: candidate text")
		}
		return TextResponse(content).WithMetadata("model", p.config.Model), nil
	})
}

// candidateText concatenates the text parts of the first candidate
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// GenerateImage implements ImageGenerator
func (p *GeminiProvider) GenerateImage(ctx context.Context, request ImageRequest) AIResponse {
	request = request.withDefaults()
	prompt := request.Prompt + ", " + request.AspectRatio + " aspect ratio, high quality photography"

	return p.boundary.image(ctx, func(ctx context.Context) (AIResponse, error) {
		resp, err := p.models.GenerateImages(ctx, p.config.ImageModel, prompt, &genai.GenerateImagesConfig{
			NumberOfImages:   1,
			AspectRatio:      request.AspectRatio,
			OutputMIMEType:   "image/png",
			IncludeRAIReason: true,
		})
		if err != nil {
			return AIResponse{}, err
		}

		if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0] == nil {
			return AIResponse{}, malformed(noImageData)
		}

		generated := resp.GeneratedImages[0]
		if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			if generated.RAIFilteredReason != "" {
				return AIResponse{}, malformed("image filtered: %s", generated.RAIFilteredReason)
			}
			return AIResponse{}, malformed(noImageData)
		}

		mimeType := config.FirstNonEmpty(generated.Image.MIMEType, "image/png")
		return ImageResponse(generated.Image.ImageBytes).
			WithMetadata("model", p.config.ImageModel).
			WithMetadata("mime_type", mimeType), nil
	})
}

// HealthCheck issues a trivial prompt generation
func (p *GeminiProvider) HealthCheck(ctx context.Context) bool {
	return defaultHealthCheck(ctx, p)
}
