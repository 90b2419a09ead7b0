package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"depdash/internal/model"
)

const (
	// DefaultDirName is the issues root relative to the working directory.
	DefaultDirName = "issues"

	issueExt = ".md"
)

// Store maps (project, repository, title) to markdown files under Dir:
//
//	{Dir}/{project}/{repository}/{title}.md
//
// Project and repository segments are used as given. Every call hits the disk;
// nothing is cached.
type Store struct {
	Dir string
	// Locks is shared by every copy of the Store that should serialise
	// writes. New sets it; a zero Store has none.
	Locks *Locks
}

func New(dir string) Store {
	return Store{Dir: dir, Locks: NewLocks()}
}

func (s Store) RepositoryDir(project, repository string) string {
	return filepath.Join(s.Dir, project, repository)
}

func (s Store) IssuePath(project, repository, title string) string {
	return filepath.Join(s.RepositoryDir(project, repository), title+issueExt)
}

// ListIssues enumerates every file in the repository directory as an issue.
// A missing directory means zero issues, not an error. Order follows
// os.ReadDir.
func (s Store) ListIssues(project, repository string) ([]model.IssueSummary, error) {
	entries, err := os.ReadDir(s.RepositoryDir(project, repository))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.IssueSummary{}, nil
		}
		return nil, fmt.Errorf("list issues %s/%s: %w", project, repository, err)
	}
	out := make([]model.IssueSummary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, model.IssueSummary{
			Title: titleFromFileName(e.Name()),
			IID:   model.IssueIID,
		})
	}
	return out, nil
}

// titleFromFileName strips the first ".md" from a file name, which is how
// titles have always been derived from listings.
func titleFromFileName(name string) string {
	return strings.Replace(name, issueExt, "", 1)
}

// ReadIssue reads a file relative to Dir. A missing file yields an error that
// matches fs.ErrNotExist.
func (s Store) ReadIssue(relPath string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir, relPath))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FirstIssue returns the repository's active issue: the first entry of its
// listing. ok is false when the repository has no issues.
func (s Store) FirstIssue(project, repository string) (issue model.Issue, ok bool, err error) {
	issues, err := s.ListIssues(project, repository)
	if err != nil {
		return model.Issue{}, false, err
	}
	if len(issues) == 0 {
		return model.Issue{}, false, nil
	}
	title := issues[0].Title
	content, err := s.ReadIssue(filepath.Join(project, repository, title+issueExt))
	if err != nil {
		return model.Issue{}, false, err
	}
	return model.Issue{
		Project:    project,
		Repository: repository,
		Title:      title,
		Content:    content,
		IID:        model.IssueIID,
	}, true, nil
}

// EnsureRepositoryDir creates the repository directory and its parents. It is
// a no-op when the directory already exists.
func (s Store) EnsureRepositoryDir(project, repository string) error {
	dir := s.RepositoryDir(project, repository)
	if st, err := os.Stat(dir); err == nil && st.IsDir() {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create repository dir: %w", err)
	}
	return nil
}

// WriteIssueContent overwrites (or creates) the issue file. The write is not
// atomic: a failure part way through can leave a truncated file behind.
func (s Store) WriteIssueContent(project, repository, title, content string) error {
	return os.WriteFile(s.IssuePath(project, repository, title), []byte(content), 0o644)
}

// WriteIssue is create-or-replace: it makes sure the repository directory
// exists, then writes the file under the repository lock.
func (s Store) WriteIssue(project, repository, title, content string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("write issue: missing title")
	}
	unlock := s.Lock(project, repository)
	defer unlock()

	if err := s.EnsureRepositoryDir(project, repository); err != nil {
		return err
	}
	return s.WriteIssueContent(project, repository, title, content)
}
