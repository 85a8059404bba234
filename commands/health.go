package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errHealthCheck = errors.New("health check failed")

// runHealthCheck constructs both providers and probes each once
func runHealthCheck(cmd *cobra.Command, opts Options) error {
	if err := validateProviders(opts.PromptProvider, opts.ImageProvider); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ok, fail := "", ""
	if useSymbols(out) {
		ok, fail = "✓ ", "✗ "
	}

	create := createFunc(opts.Env)
	healthy := true
	for _, name := range uniqueNames(opts.PromptProvider, opts.ImageProvider) {
		p, err := create(name)
		if err != nil {
			fmt.Fprintf(out, "%s%s provider: %v\n", fail, name, err)
			healthy = false
			continue
		}
		if !p.HealthCheck(cmd.Context()) {
			fmt.Fprintf(out, "%s%s provider: %v\n", fail, name, errHealthCheck)
			healthy = false
			continue
		}
		fmt.Fprintf(out, "%s%s provider: OK\n", ok, name)
	}

	if !healthy {
		return errHealthCheck
	}
	return nil
}

func uniqueNames(names ...string) []string {
	var result []string
	for _, name := range names {
		if !contains(result, name) {
			result = append(result, name)
		}
	}
	return result
}
