package provider

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mmichie/slidegen/pkg/config"
	"github.com/mmichie/slidegen/pkg/httputil"
)

const (
	ollamaName           = "ollama"
	ollamaDefaultBaseURL = "http://localhost:11434"
	ollamaDefaultModel   = "llama3.1"
)

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// OllamaProvider generates prompts with a local Ollama server. It cannot
// generate images.
type OllamaProvider struct {
	config   config.Config
	boundary boundary
}

// NewOllamaProvider creates an Ollama backend. No credentials are needed.
func NewOllamaProvider(cfg config.Config) (*OllamaProvider, error) {
	cfg.BaseURL = strings.TrimRight(config.FirstNonEmpty(cfg.BaseURL, ollamaDefaultBaseURL), "/")
	cfg.Model = config.FirstNonEmpty(cfg.Model, ollamaDefaultModel)

	return &OllamaProvider{
		config:   cfg,
		boundary: newBoundary(ollamaName, "Ollama", true, cfg.Timeout, cfg.ImageTimeout),
	}, nil
}

func (p *OllamaProvider) Name() string                   { return ollamaName }
func (p *OllamaProvider) SupportsImageGeneration() bool  { return false }
func (p *OllamaProvider) SupportsPromptGeneration() bool { return true }

// GeneratePrompt implements PromptGenerator. Ollama's generate endpoint has
// no system role, so the framing is prepended to the user prompt.
func (p *OllamaProvider) GeneratePrompt(ctx context.Context, request PromptRequest) AIResponse {
	return p.boundary.prompt(ctx, func(ctx context.Context) (AIResponse, error) {
		in, err := renderInstructions(request)
		if err != nil {
			return AIResponse{}, err
		}

		var response ollamaGenerateResponse
		err = httputil.DecodeJSON(ctx, httputil.RequestDetails{
			URL: p.config.BaseURL + "/api/generate",
			RequestBody: ollamaGenerateRequest{
				Model:  p.config.Model,
				Prompt: in.Combined(),
				Stream: false,
				Options: ollamaOptions{
					Temperature: promptTemperature,
					NumPredict:  promptMaxTokens,
				},
			},
		}, &response)
		if err != nil {
			return AIResponse{}, err
		}

		content := strings.TrimSpace(response.Response)
		if content == "" {
			return AIResponse{}, malformed("missing expected fields: response")
		}
		return TextResponse(content).WithMetadata("model", p.config.Model), nil
	})
}

// GenerateImage always fails without contacting the server
func (p *OllamaProvider) GenerateImage(ctx context.Context, request ImageRequest) AIResponse {
	return p.boundary.unsupportedImage()
}

// HealthCheck lists the installed models and looks for the configured one
func (p *OllamaProvider) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout(p.config))
	defer cancel()

	body, err := httputil.Get(ctx, p.config.BaseURL+"/api/tags", "")
	if err != nil {
		p.boundary.logger.WithError(err).Debug("health check failed")
		return false
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return false
	}
	for _, model := range tags.Models {
		if strings.Contains(model.Name, p.config.Model) {
			return true
		}
	}
	return false
}

func healthTimeout(cfg config.Config) time.Duration {
	if cfg.HealthTimeout > 0 {
		return cfg.HealthTimeout
	}
	return config.DefaultHealthTimeout
}
