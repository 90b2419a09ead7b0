package cli

import (
	"errors"
	"fmt"
	"syscall"

	"depdash/internal/config"
	"depdash/internal/mutate"
)

func errIssueNotFound(project, repository string) error {
	return mutate.NotFoundError{Kind: "issue", ID: project + "/" + repository}
}

// listenError turns the common bind failures into something readable.
func listenError(l config.Listener, err error) error {
	bind := l.Describe()
	switch {
	case errors.Is(err, syscall.EACCES):
		return fmt.Errorf("%s requires elevated privileges", bind)
	case errors.Is(err, syscall.EADDRINUSE):
		return fmt.Errorf("%s is already in use", bind)
	default:
		return fmt.Errorf("listen on %s: %w", bind, err)
	}
}
