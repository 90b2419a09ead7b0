package mutate

import (
	"regexp"
	"strings"

	"depdash/internal/model"
	"depdash/internal/store"
)

// PlainTexter strips markdown formatting from a single line.
type PlainTexter interface {
	PlainText(line string) string
}

const (
	checkedPrefix   = " - [x]"
	uncheckedPrefix = " - [ ]"

	// checkboxPrefixWidth is how much of a matching line is replaced. Lines
	// are assumed to start with a 6-character "- [ ] "-style prefix; a line
	// that doesn't will lose its first 6 characters.
	checkboxPrefixWidth = 6
)

// ToggleCheckboxes rewrites the checkbox marker of every line whose plain text
// contains token. Matching is a case-sensitive substring test; an empty token
// matches every line. Line count and order never change.
func ToggleCheckboxes(content, token string, selected bool, plain PlainTexter) (string, int) {
	lines := strings.Split(content, "\n")
	matched := 0
	for i, line := range lines {
		if !strings.Contains(plain.PlainText(line), token) {
			continue
		}
		lines[i] = checkboxPrefix(selected) + dropPrefix(line, checkboxPrefixWidth)
		matched++
	}
	return strings.Join(lines, "\n"), matched
}

func checkboxPrefix(selected bool) string {
	if selected {
		return checkedPrefix
	}
	return uncheckedPrefix
}

// dropPrefix removes the first n characters (not bytes) of s.
func dropPrefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}

type UpdateResult struct {
	Found   bool   `json:"found"`
	Title   string `json:"title,omitempty"`
	Matched int    `json:"matched"`
	Written bool   `json:"written"`
}

// UpdateIssue applies ToggleCheckboxes to the repository's active issue and
// persists the result. A repository without issues is not an error: the result
// reports Found=false and nothing is written.
func UpdateIssue(st store.Store, project, repository, token string, selected bool, plain PlainTexter) (UpdateResult, error) {
	unlock := st.Lock(project, repository)
	defer unlock()

	issue, ok, err := st.FirstIssue(project, repository)
	if err != nil {
		return UpdateResult{}, err
	}
	if !ok {
		return UpdateResult{}, nil
	}

	next, matched := ToggleCheckboxes(issue.Content, token, selected, plain)
	res := UpdateResult{Found: true, Title: issue.Title, Matched: matched}
	if err := st.WriteIssueContent(project, repository, issue.Title, next); err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}

var checklistLineRE = regexp.MustCompile(`^\s*(?:[-*+]\s+)?\[([ xX])\]\s?(.*)$`)

// ParseChecklist returns the lines of content that carry a checkbox marker.
func ParseChecklist(content string) []model.ChecklistLine {
	var out []model.ChecklistLine
	for i, line := range strings.Split(content, "\n") {
		m := checklistLineRE.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		out = append(out, model.ChecklistLine{
			Index: i,
			State: model.CheckboxState(m[1]),
			Text:  m[2],
		})
	}
	return out
}
