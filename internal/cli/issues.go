package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"depdash/internal/markdown"
	"depdash/internal/mutate"

	"github.com/spf13/cobra"
)

func newIssuesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"issue"},
		Short:   "Read and edit dependency dashboard issues",
	}
	cmd.AddCommand(newIssuesListCmd(app))
	cmd.AddCommand(newIssuesShowCmd(app))
	cmd.AddCommand(newIssuesChecklistCmd(app))
	cmd.AddCommand(newIssuesToggleCmd(app))
	cmd.AddCommand(newIssuesWriteCmd(app))
	return cmd
}

func newIssuesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project> <repository>",
		Short: "List a repository's issues",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			issues, err := st.ListIssues(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, issues)
		},
	}
}

func newIssuesShowCmd(app *App) *cobra.Command {
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <project> <repository>",
		Short: "Show a repository's active issue",
		Long: strings.TrimSpace(`
Show the repository's active issue (the first file in its directory), rendered
for the terminal. Use --raw for the markdown exactly as stored.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			issue, ok, err := st.FirstIssue(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errIssueNotFound(args[0], args[1]))
			}
			if raw {
				_, err := io.WriteString(cmd.OutOrStdout(), issue.Content)
				return err
			}
			out := markdown.NewTerminalRenderer().Render(issue.Content, width)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the stored markdown without rendering")
	cmd.Flags().IntVar(&width, "width", 100, "Wrap width for rendered output")
	return cmd
}

func newIssuesChecklistCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "checklist <project> <repository>",
		Short: "List the checkbox lines of a repository's active issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			issue, ok, err := st.FirstIssue(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errIssueNotFound(args[0], args[1]))
			}
			lines := mutate.ParseChecklist(issue.Content)
			return writeOut(cmd, app, map[string]any{
				"title": issue.Title,
				"items": lines,
			})
		},
	}
}

func newIssuesToggleCmd(app *App) *cobra.Command {
	var unselect bool

	cmd := &cobra.Command{
		Use:   "toggle <project> <repository> <dep>",
		Short: "Check (or uncheck) every line whose text contains <dep>",
		Long: strings.TrimSpace(`
Rewrite the checkbox of every line in the active issue whose plain text
contains <dep>. Matching is a case-sensitive substring test.

A repository with no issue is not an error: nothing is written and the result
reports found=false.
`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := mutate.UpdateIssue(st, args[0], args[1], args[2], !unselect, markdown.NewExtractor())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().BoolVar(&unselect, "unselect", false, "Uncheck matching lines instead of checking them")
	return cmd
}

func newIssuesWriteCmd(app *App) *cobra.Command {
	var file string
	var description string

	cmd := &cobra.Command{
		Use:   "write <project> <repository> <title>",
		Short: "Create or replace an issue",
		Example: strings.TrimSpace(`
# From a file
depdash issues write acme widgets deps --file deps.md

# From stdin
renovate-report | depdash issues write acme widgets deps --file -
`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && cmd.Flags().Changed("description") {
				return writeErr(cmd, errors.New("use either --file or --description"))
			}
			content := description
			if file != "" {
				b, err := readInput(cmd, file)
				if err != nil {
					return writeErr(cmd, err)
				}
				content = string(b)
			}

			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			project, repository, title := args[0], args[1], args[2]
			if err := st.WriteIssue(project, repository, title, content); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"path":  st.IssuePath(project, repository, title),
				"bytes": len(content),
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the body from a file (- for stdin)")
	cmd.Flags().StringVar(&description, "description", "", "Body text")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
