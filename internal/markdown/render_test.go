package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_TaskListCheckboxes(t *testing.T) {
	t.Parallel()

	r := NewRenderer(Options{})
	out, err := r.Render(" - [ ] upgrade left-pad to 2.0\n - [x] upgrade lodash to 5.0")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, `type="checkbox"`))
	assert.Equal(t, 1, strings.Count(out, "checked"))
	assert.Contains(t, out, "upgrade lodash to 5.0")
}

func TestRender_EmptyInput(t *testing.T) {
	t.Parallel()

	out, err := NewRenderer(Options{}).Render("  \n")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRender_RawHTMLOmittedByDefault(t *testing.T) {
	t.Parallel()

	out, err := NewRenderer(Options{}).Render("<b>bold</b> <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>")
}

func TestRender_AllowHTMLSanitises(t *testing.T) {
	t.Parallel()

	r := NewRenderer(Options{AllowHTML: true})
	out, err := r.Render("<b>bold</b> <script>alert(1)</script>\n\n - [x] upgrade lodash")
	require.NoError(t, err)
	assert.Contains(t, out, "<b>bold</b>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `type="checkbox"`)
}
