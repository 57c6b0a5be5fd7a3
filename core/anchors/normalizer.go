package anchors

import (
	"regexp"
	"strings"
)

// headerPattern matches a header line: leading hashes, the header text, an
// optional trailing {#explicit-id} annotation and trailing blanks. Blanks are
// horizontal, plus the \r of a CRLF line end, so a match never spans into
// the next line.
var headerPattern = regexp.MustCompile(`(?m)^(#+)[ \t]*(.*?)(?:[ \t\r]*\{[ \t]*#([^}]+?)[ \t]*\})?[ \t\r]*$`)

// header is one header line found by Normalize.
type header struct {
	text     string
	explicit string
}

// anchor returns the explicit anchor when present, else the computed slug.
func (h header) anchor() string {
	if h.explicit != "" {
		return h.explicit
	}
	return Slug(h.text)
}

// Normalize rewrites every header line to "{hashes} {text}", dropping any
// {#id} annotation, and returns the rewritten text together with the
// header text→anchor mapping. The scan is a single left-to-right pass.
func Normalize(markdown string) (string, *Map) {
	b := newBuilder()
	matches := headerPattern.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return markdown, b.done()
	}

	var out strings.Builder
	out.Grow(len(markdown))
	last := 0
	for _, m := range matches {
		h := header{text: markdown[m[4]:m[5]]}
		if m[6] >= 0 {
			h.explicit = markdown[m[6]:m[7]]
		}
		b.put(strings.TrimSpace(h.text), h.anchor())

		out.WriteString(markdown[last:m[0]])
		out.WriteString(markdown[m[2]:m[3]])
		out.WriteByte(' ')
		out.WriteString(h.text)
		if strings.HasSuffix(markdown[m[0]:m[1]], "\r") {
			out.WriteByte('\r')
		}
		last = m[1]
	}
	out.WriteString(markdown[last:])

	return out.String(), b.done()
}
