package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

const maxBodyBytes = 4 << 20

// Dep is nil when the body has no dep (or dep is null). That is distinct
// from an explicit "", which matches every line.
type updateIssueRequest struct {
	Dep      *string  `json:"dep"`
	Selected flexBool `json:"selected"`
}

func (r *updateIssueRequest) fromForm(form map[string][]string) {
	if vs, ok := form["dep"]; ok && len(vs) > 0 {
		dep := vs[0]
		r.Dep = &dep
	}
	r.Selected = flexBool(parseBool(firstValue(form, "selected")))
}

type writeIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *writeIssueRequest) fromForm(form map[string][]string) {
	r.Title = firstValue(form, "title")
	r.Description = firstValue(form, "description")
}

type formDecoder interface {
	fromForm(form map[string][]string)
}

// decodeBody reads a JSON or urlencoded body into dst. A request without a
// body leaves dst at its zero value.
func decodeBody(r *http.Request, dst formDecoder) error {
	ct := r.Header.Get("Content-Type")
	mt := ""
	if ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("invalid content type: %w", err)
		}
		mt = parsed
	}

	switch mt {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return err
		}
		dst.fromForm(r.PostForm)
		return nil
	case "", "application/json":
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := dec.Decode(dst); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("invalid json body: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported content type: %s", mt)
	}
}

func firstValue(form map[string][]string, key string) string {
	if vs := form[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// flexBool accepts a JSON boolean or a string such as "true"/"1". Anything
// else (including null) is false.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(parseBool(t))
	case float64:
		*b = t != 0
	default:
		*b = false
	}
	return nil
}
