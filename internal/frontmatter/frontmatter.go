// Package frontmatter reads the YAML header of Markdown pages.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a Markdown page split into its header and body.
type Document struct {
	Frontmatter []byte
	Body        []byte
	// Had is false when the page has no `---` header at all.
	Had bool
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
// LF and CRLF line endings are both accepted. A leading UTF-8 BOM is ignored.
func Split(content []byte) (Document, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	nl := newline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Document{Body: content}, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return Document{Frontmatter: []byte{}, Body: rest[len(open):], Had: true}, nil
	}

	closing := []byte(nl + "---")
	idx := bytes.Index(rest, closing)
	for idx >= 0 {
		after := rest[idx+len(closing):]
		if len(after) == 0 || bytes.HasPrefix(after, []byte(nl)) {
			body := bytes.TrimPrefix(after, []byte(nl))
			return Document{Frontmatter: rest[:idx+len(nl)], Body: body, Had: true}, nil
		}
		next := bytes.Index(after, closing)
		if next < 0 {
			break
		}
		idx += len(closing) + next
	}
	return Document{}, ErrMissingClosingDelimiter
}

// Decode unmarshals raw frontmatter into v. Empty frontmatter leaves v untouched.
func Decode(frontmatter []byte, v any) error {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return nil
	}
	return yaml.Unmarshal(frontmatter, v)
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
