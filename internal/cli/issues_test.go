package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestIssuesWriteListToggle(t *testing.T) {
	dir := t.TempDir()
	body := " - [ ] upgrade left-pad to 2.0\n - [ ] upgrade lodash to 5.0"

	_, _, err := runCLI(t, body, "--issues-dir", dir, "issues", "write", "acme", "widgets", "deps", "--file", "-")
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "--issues-dir", dir, "issues", "list", "acme", "widgets")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"deps","iid":1}]`, out)

	out, _, err = runCLI(t, "", "--issues-dir", dir, "issues", "toggle", "acme", "widgets", "lodash")
	require.NoError(t, err)
	assert.JSONEq(t, `{"found":true,"title":"deps","matched":1,"written":true}`, out)

	b, err := os.ReadFile(filepath.Join(dir, "acme", "widgets", "deps.md"))
	require.NoError(t, err)
	assert.Equal(t, " - [ ] upgrade left-pad to 2.0\n - [x] upgrade lodash to 5.0", string(b))

	out, _, err = runCLI(t, "", "--issues-dir", dir, "issues", "checklist", "acme", "widgets")
	require.NoError(t, err)
	var checklist struct {
		Title string `json:"title"`
		Items []struct {
			Index int    `json:"index"`
			State string `json:"state"`
			Text  string `json:"text"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &checklist))
	require.Len(t, checklist.Items, 2)
	assert.Equal(t, "x", checklist.Items[1].State)

	out, _, err = runCLI(t, "", "--issues-dir", dir, "issues", "show", "acme", "widgets", "--raw")
	require.NoError(t, err)
	assert.Equal(t, string(b), out)
}

func TestIssuesToggle_NoIssue(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runCLI(t, "", "--issues-dir", dir, "issues", "toggle", "acme", "widgets", "lodash", "--unselect")
	require.NoError(t, err)
	assert.JSONEq(t, `{"found":false,"matched":0,"written":false}`, out)
}

func TestIssuesShow_NoIssue(t *testing.T) {
	dir := t.TempDir()
	_, errOut, err := runCLI(t, "", "--issues-dir", dir, "issues", "show", "acme", "widgets")
	require.Error(t, err)
	assert.Contains(t, errOut, "issue not found: acme/widgets")
}

func TestIssuesWrite_RejectsBothSources(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "", "--issues-dir", dir, "issues", "write", "acme", "widgets", "deps", "--file", "-", "--description", "x")
	require.Error(t, err)
}

func TestIssuesList_YAML(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCLI(t, "", "--issues-dir", dir, "issues", "write", "acme", "widgets", "deps", "--description", "- [ ] a")
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "--issues-dir", dir, "--format", "yaml", "issues", "list", "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, "- iid: 1\n  title: deps\n", out)
}

func TestIssuesList_IgnoresServerSettings(t *testing.T) {
	t.Setenv("PORT", "-1")
	t.Setenv("BASIC_AUTH_ENABLED", "true")

	dir := t.TempDir()
	out, _, err := runCLI(t, "", "--issues-dir", dir, "issues", "list", "acme", "widgets")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}
