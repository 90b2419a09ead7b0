package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	e := NewExtractor()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "upgrade lodash", want: "upgrade lodash"},
		{name: "unchecked task", in: " - [ ] upgrade lodash to 5.0", want: "upgrade lodash to 5.0"},
		{name: "checked task", in: " - [x] upgrade lodash to 5.0", want: "upgrade lodash to 5.0"},
		{name: "emphasis", in: "- [ ] bump **lodash** to _5.0_", want: "bump lodash to 5.0"},
		{name: "code span", in: "- [ ] bump `lodash` to 5.0", want: "bump lodash to 5.0"},
		{name: "link", in: "- [ ] Update [lodash](https://github.com/lodash/lodash) to v5", want: "Update lodash to v5"},
		{name: "heading", in: "## Pending updates", want: "Pending updates"},
		{name: "raw html dropped", in: "<!-- renovate:lodash -->", want: ""},
		{name: "emoji shortcode kept", in: "- [ ] :rocket: lodash", want: ":rocket: lodash"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.PlainText(tc.in))
		})
	}
}
