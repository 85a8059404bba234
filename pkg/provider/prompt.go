package provider

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var promptTemplate = template.Must(template.ParseFS(templateFS, "templates/prompt.tmpl"))

// instructions is the rendered system framing and user prompt for one slide
type instructions struct {
	System string
	User   string
}

// Combined joins system and user text for backends without a system role
func (i instructions) Combined() string {
	return i.System + "\n\n" + i.User
}

func renderInstructions(request PromptRequest) (instructions, error) {
	request = request.withDefaults()

	system, err := executeTemplate("system", request)
	if err != nil {
		return instructions{}, err
	}
	user, err := executeTemplate("user", request)
	if err != nil {
		return instructions{}, err
	}

	return instructions{System: system, User: user}, nil
}

func executeTemplate(name string, data PromptRequest) (string, error) {
	var result strings.Builder
	if err := promptTemplate.ExecuteTemplate(&result, name, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}
	return strings.TrimSpace(result.String()), nil
}
