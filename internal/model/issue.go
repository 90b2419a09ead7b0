package model

// IssueIID is the only issue id a repository has. The store addresses one active
// issue per repository (the first file in its directory), so ids are never
// disambiguated.
const IssueIID = 1

// Issue is a dependency dashboard document stored at
// issues/{project}/{repository}/{title}.md.
type Issue struct {
	Project    string `json:"project"`
	Repository string `json:"repository"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	IID        int    `json:"iid"`
}

// IssueSummary is what listing a repository returns.
type IssueSummary struct {
	Title string `json:"title"`
	IID   int    `json:"iid"`
}

type CheckboxState string

const (
	CheckboxUnchecked CheckboxState = " "
	CheckboxChecked   CheckboxState = "x"
)

// Checked reports whether the marker is [x]. Uppercase [X] counts as checked,
// as it does for GFM task lists.
func (s CheckboxState) Checked() bool {
	return s == CheckboxChecked || s == "X"
}

// ChecklistLine is a line of issue content that carries a checkbox marker.
// Index is the zero-based line number within the content.
type ChecklistLine struct {
	Index int           `json:"index"`
	State CheckboxState `json:"state"`
	Text  string        `json:"text"`
}
