package format

import (
	"bytes"
	"testing"

	"depdash/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_JSON(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Write(&b, []model.IssueSummary{{Title: "deps", IID: 1}}, "", false))
	assert.Equal(t, "[{\"title\":\"deps\",\"iid\":1}]\n", b.String())
}

func TestWrite_YAMLUsesJSONKeys(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Write(&b, model.IssueSummary{Title: "deps", IID: 1}, "yaml", false))
	assert.Equal(t, "iid: 1\ntitle: deps\n", b.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	var b bytes.Buffer
	require.Error(t, Write(&b, 1, "edn", false))
}

func TestWriteJSON_KeepsMarkdownCharacters(t *testing.T) {
	var b bytes.Buffer
	issue := model.Issue{Title: "deps", Content: " - [ ] a<b> & c", IID: 1}
	require.NoError(t, WriteJSON(&b, issue, false))
	assert.Contains(t, b.String(), ` - [ ] a<b> & c`)
	assert.NotContains(t, b.String(), `\u003c`)
}

func TestWriteJSON_Pretty(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteJSON(&b, model.IssueSummary{Title: "deps", IID: 1}, true))
	assert.Equal(t, "{\n  \"title\": \"deps\",\n  \"iid\": 1\n}\n", b.String())
}
