package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mmichie/slidegen/internal/workflow"
	"github.com/mmichie/slidegen/pkg/config"
	"github.com/mmichie/slidegen/pkg/provider"
	"github.com/mmichie/slidegen/pkg/slides"
)

// Options carries everything the root command collected from flags,
// configuration and the environment
type Options struct {
	Titles      []string
	File        string
	Directory   string
	HealthCheck bool
	MetricsFile string

	PromptProvider string
	ImageProvider  string
	OutputDir      string
	Theme          string
	Style          string

	// Env supplies provider configuration such as OPENAI_API_KEY
	Env config.Env
}

// validateProviders rejects unknown names before anything is constructed
func validateProviders(promptProvider, imageProvider string) error {
	if !contains(provider.Names(), promptProvider) {
		return fmt.Errorf("invalid prompt provider %q (choose from %s)",
			promptProvider, strings.Join(provider.Names(), ", "))
	}
	if !contains(provider.ImageCapable(), imageProvider) {
		return fmt.Errorf("invalid image provider %q (choose from %s)",
			imageProvider, strings.Join(provider.ImageCapable(), ", "))
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// createFunc builds providers from the global registry using env
func createFunc(env config.Env) workflow.CreateFunc {
	return func(name string) (provider.Provider, error) {
		return provider.Create(name, env)
	}
}

// loadSlides reads slides from --titles or --file
func loadSlides(opts Options) ([]slides.SlideInfo, error) {
	switch {
	case len(opts.Titles) > 0:
		return slides.FromTitles(opts.Titles), nil
	case opts.File != "":
		return slides.FromFile(opts.File)
	}
	return nil, errNoInput
}

// useSymbols reports whether w is a terminal that should get ✓/✗ markers
func useSymbols(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
