package mutate

import "fmt"

// NotFoundError reports a missing issue where the caller needs one to exist
// (the HTTP update path treats a missing issue as a no-op instead).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
