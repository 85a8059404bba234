package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mmichie/slidegen/pkg/config"
	sgerrors "github.com/mmichie/slidegen/pkg/errors"
)

const (
	CapabilityPrompt = "prompt"
	CapabilityImage  = "image"
)

// Factory builds one kind of backend
type Factory interface {
	// Name is the registry key, e.g. "openai"
	Name() string

	// EnvConfig assembles the backend configuration from environment values
	EnvConfig(env config.Env) config.Config

	// Create constructs the backend, validating required credentials
	Create(cfg config.Config) (Provider, error)

	// Capabilities lists CapabilityPrompt and/or CapabilityImage
	Capabilities() []string
}

// Registry manages the available provider factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// globalRegistry is the default registry instance
var globalRegistry = NewRegistry()

func init() {
	for _, factory := range []Factory{openAIFactory{}, geminiFactory{}, ollamaFactory{}, lmStudioFactory{}} {
		if err := globalRegistry.RegisterFactory(factory); err != nil {
			panic(err)
		}
	}
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// RegisterFactory adds a provider factory to the registry
func (r *Registry) RegisterFactory(factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := factory.Name()
	if name == "" {
		return sgerrors.New("registry", "register_factory",
			fmt.Errorf("provider factory name cannot be empty"))
	}

	if _, exists := r.factories[name]; exists {
		return sgerrors.New("registry", "register_factory",
			fmt.Errorf("provider factory %q already registered", name))
	}

	r.factories[name] = factory
	return nil
}

// GetFactory returns a provider factory by name
func (r *Registry) GetFactory(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, sgerrors.Newf("registry", "create", sgerrors.ErrUnknownProvider, "%s", name)
	}

	return factory, nil
}

// CreateProvider looks up name, assembles its configuration from env and
// constructs the backend
func (r *Registry) CreateProvider(name string, env config.Env) (Provider, error) {
	factory, err := r.GetFactory(name)
	if err != nil {
		return nil, err
	}

	return factory.Create(factory.EnvConfig(env))
}

// ListProviders returns the registered provider names in sorted order
func (r *Registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.factories))
	for name := range r.factories {
		result = append(result, name)
	}
	sort.Strings(result)

	return result
}

// ListCapable returns the sorted names of providers offering capability
func (r *Registry) ListCapable(capability string) []string {
	var result []string
	for _, name := range r.ListProviders() {
		factory, err := r.GetFactory(name)
		if err != nil {
			continue
		}
		if hasCapability(factory, capability) {
			result = append(result, name)
		}
	}
	return result
}

func hasCapability(factory Factory, capability string) bool {
	for _, c := range factory.Capabilities() {
		if c == capability {
			return true
		}
	}
	return false
}

// Global registry functions for convenience

// Register adds a provider factory to the global registry
func Register(factory Factory) error {
	return globalRegistry.RegisterFactory(factory)
}

// Get returns a provider factory from the global registry
func Get(name string) (Factory, error) {
	return globalRegistry.GetFactory(name)
}

// Create creates a provider instance using the global registry
func Create(name string, env config.Env) (Provider, error) {
	return globalRegistry.CreateProvider(name, env)
}

// Names returns the providers in the global registry
func Names() []string {
	return globalRegistry.ListProviders()
}

// ImageCapable returns the image-capable providers in the global registry
func ImageCapable() []string {
	return globalRegistry.ListCapable(CapabilityImage)
}

type openAIFactory struct{}

func (openAIFactory) Name() string { return openAIName }

func (openAIFactory) Capabilities() []string {
	return []string{CapabilityPrompt, CapabilityImage}
}

func (openAIFactory) EnvConfig(env config.Env) config.Config {
	defaults := config.NewConfig(
		config.WithBaseURL(openAIDefaultBaseURL),
		config.WithModel(openAIDefaultModel),
		config.WithImageModel(openAIDefaultImageModel),
	)
	// OPENAI_PROMPT_MODEL wins over OPENAI_MODEL
	return defaults.
		Merge(config.FromEnvironment("OPENAI", env)).
		Merge(config.Config{Model: env.GetString("OPENAI_PROMPT_MODEL")})
}

func (openAIFactory) Create(cfg config.Config) (Provider, error) {
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type geminiFactory struct{}

func (geminiFactory) Name() string { return geminiName }

func (geminiFactory) Capabilities() []string {
	return []string{CapabilityPrompt, CapabilityImage}
}

func (geminiFactory) EnvConfig(env config.Env) config.Config {
	defaults := config.NewConfig(
		config.WithAPIKey(env.GetString("GOOGLE_API_KEY")),
		config.WithModel(geminiDefaultModel),
		config.WithImageModel(geminiDefaultImageModel),
	)
	return defaults.Merge(config.FromEnvironment("GEMINI", env))
}

func (geminiFactory) Create(cfg config.Config) (Provider, error) {
	p, err := NewGeminiProvider(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type ollamaFactory struct{}

func (ollamaFactory) Name() string { return ollamaName }

func (ollamaFactory) Capabilities() []string { return []string{CapabilityPrompt} }

func (ollamaFactory) EnvConfig(env config.Env) config.Config {
	defaults := config.NewConfig(
		config.WithBaseURL(ollamaDefaultBaseURL),
		config.WithModel(ollamaDefaultModel),
	)
	return defaults.Merge(config.FromEnvironment("OLLAMA", env))
}

func (ollamaFactory) Create(cfg config.Config) (Provider, error) {
	p, err := NewOllamaProvider(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type lmStudioFactory struct{}

func (lmStudioFactory) Name() string { return lmStudioName }

func (lmStudioFactory) Capabilities() []string { return []string{CapabilityPrompt} }

func (lmStudioFactory) EnvConfig(env config.Env) config.Config {
	defaults := config.NewConfig(
		config.WithBaseURL(lmStudioDefaultBaseURL),
		config.WithModel(lmStudioDefaultModel),
	)
	return defaults.Merge(config.FromEnvironment("LMSTUDIO", env))
}

func (lmStudioFactory) Create(cfg config.Config) (Provider, error) {
	p, err := NewLMStudioProvider(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}
