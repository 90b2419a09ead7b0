package web

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"depdash/internal/markdown"
)

// ContentPlaceholder marks where the rendered issue goes in the page template.
const ContentPlaceholder = "{ content }"

//go:embed templates/dependency-dashboard.html
var defaultTemplate string

// ErrTemplateMissing means the configured page template couldn't be read. It
// is a deployment problem and only fails the request that hit it.
var ErrTemplateMissing = errors.New("dashboard template missing")

// Presenter turns issue content into responses: an HTML page for browsers, the
// raw markdown for API clients.
type Presenter struct {
	Renderer *markdown.Renderer
	// TemplatePath, when set, is read on every page render so edits show up
	// without a restart. Empty means the embedded template.
	TemplatePath string
}

func (p *Presenter) template() (string, error) {
	if strings.TrimSpace(p.TemplatePath) == "" {
		return defaultTemplate, nil
	}
	b, err := os.ReadFile(p.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateMissing, err)
	}
	return string(b), nil
}

// Page renders content and substitutes it for the first placeholder in the
// template.
func (p *Presenter) Page(content string) (string, error) {
	tmpl, err := p.template()
	if err != nil {
		return "", err
	}
	body, err := p.Renderer.Render(content)
	if err != nil {
		return "", err
	}
	return strings.Replace(tmpl, ContentPlaceholder, body, 1), nil
}

type DescriptionResponse struct {
	Description string `json:"description"`
}

// Description is the API form of an issue: its raw markdown, verbatim.
func (p *Presenter) Description(content string) DescriptionResponse {
	return DescriptionResponse{Description: content}
}
