package markdown

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// TerminalRenderer renders issue bodies for `depdash issues show`.
//
// Renderers are cached per style and wrap width. glamour.WithAutoStyle is
// avoided because its terminal queries can block.
type TerminalRenderer struct {
	mu        sync.Mutex
	renderers map[string]*glamour.TermRenderer
}

func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{renderers: map[string]*glamour.TermRenderer{}}
}

// Render returns ANSI output for md. If glamour fails the source is returned
// unchanged.
func (t *TerminalRenderer) Render(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	style := terminalStyle()
	key := style + ":" + strconv.Itoa(width)

	t.mu.Lock()
	r := t.renderers[key]
	t.mu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(terminalStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		t.mu.Lock()
		if existing := t.renderers[key]; existing != nil {
			r = existing
		} else {
			t.renderers[key] = rr
			r = rr
		}
		t.mu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func terminalStyleConfig(style string) ansi.StyleConfig {
	var cfg ansi.StyleConfig
	if style == "light" {
		cfg = styles.LightStyleConfig
	} else {
		cfg = styles.DarkStyleConfig
	}
	// Match the [x] marker used in issue files.
	cfg.Task.Ticked = "[x] "
	cfg.Task.Unticked = "[ ] "
	return cfg
}

func terminalStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEPDASH_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG is "fg;bg"; xterm palette 0-6 are dark backgrounds.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil && bg >= 0 {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
