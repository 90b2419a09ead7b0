package markdown

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestTerminalRenderer_RendersAndCaches(t *testing.T) {
	t.Setenv("DEPDASH_MD_STYLE", "dark")

	r := NewTerminalRenderer()
	out := ansi.Strip(r.Render(" - [x] upgrade lodash to 5.0", 80))
	assert.Contains(t, out, "upgrade lodash to 5.0")
	assert.Contains(t, out, "[x]")
	assert.Len(t, r.renderers, 1)

	_ = r.Render("# again", 80)
	assert.Len(t, r.renderers, 1)
}

func TestTerminalRenderer_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", NewTerminalRenderer().Render("   ", 80))
}

func TestTerminalStyle_Overrides(t *testing.T) {
	t.Setenv("DEPDASH_MD_STYLE", "light")
	assert.Equal(t, "light", terminalStyle())

	t.Setenv("DEPDASH_MD_STYLE", "")
	t.Setenv("COLORFGBG", "15;0")
	assert.Equal(t, "dark", terminalStyle())

	t.Setenv("COLORFGBG", "0;15")
	assert.Equal(t, "light", terminalStyle())
}
