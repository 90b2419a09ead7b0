package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write prints a CLI result (issue summaries, an issue, a toggle report) as
// json, the default, or yaml.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// WriteJSON emits v as a single line, or indented when pretty is set. Issue
// bodies are markdown, so <, > and & are left as written instead of being
// escaped to \u003c and friends.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
