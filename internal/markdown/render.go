// Package markdown renders issue bodies (HTML for the dashboard, ANSI for the
// terminal) and extracts the plain text used to match checklist lines.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

type Options struct {
	// AllowHTML passes raw HTML in issue bodies through to the page. The output
	// is then run through a sanitising policy that still keeps task list
	// checkboxes.
	AllowHTML bool
}

// Renderer converts issue markdown to HTML. It has no mutable state and is safe
// for concurrent use.
type Renderer struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

func NewRenderer(opt Options) *Renderer {
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			emoji.Emoji,
		),
	}
	htmlOpts := []renderer.Option{html.WithHardWraps()}
	if opt.AllowHTML {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))

	r := &Renderer{md: goldmark.New(rendererOpts...)}
	if opt.AllowHTML {
		r.sanitize = checkboxPolicy()
	}
	return r
}

func checkboxPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("input")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}

// Render returns the HTML for src. Task list items ("- [ ]" / "- [x]") render
// as disabled checkbox inputs.
func (r *Renderer) Render(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var b bytes.Buffer
	if err := r.md.Convert([]byte(src), &b); err != nil {
		return "", err
	}
	if r.sanitize != nil {
		return r.sanitize.Sanitize(b.String()), nil
	}
	return b.String(), nil
}
