package staticpub

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Header is one verbatim key/value pair from a pseudo-note header block.
// Order matters: headers are emitted in file order.
type Header struct {
	Key   string
	Value string
}

// Note is one parsed pseudo-note. Notes are immutable after parsing;
// the JSON projections in activity.go never modify them.
type Note struct {
	// ID is {domain}/posts/{id}, where id is the source filename minus
	// its final extension.
	ID string

	// Filename is the source file's base name, carried into the
	// emitted document.
	Filename string

	// Published orders the note in the outbox. Defaults to the parse
	// clock when the note has no published header.
	Published time.Time

	// Sensitive marks the note as a content warning candidate.
	Sensitive bool

	// To is the audience list. Defaults to the public collection.
	To []string

	// Headers holds the unrecognized header pairs in file order.
	Headers []Header

	// Content is the body text, newlines preserved. Holds rendered
	// HTML when Markdown rendering is enabled.
	Content string

	// context is the JSON-LD marker set by the parser. Deriving a
	// Create activity requires it; the embedded projection strips it.
	context []any
}

// ParseNote parses one pseudo-note file into a Note.
//
// The file is an optional preamble, a header block framed by exactly two
// lines starting with "---", and a body. Header lines have the form
// "key: value" and split on the first ": " occurrence. Recognized keys
// (published, sensitive, to) populate typed fields; the rest are carried
// verbatim. The body is every line after the second delimiter, unmodified.
//
// now stamps notes that have no published header. All errors carry the
// offending filename.
func ParseNote(domain, filename string, data []byte, now time.Time) (*Note, error) {
	lines := splitLines(data)

	var delims []int
	for i, line := range lines {
		if strings.HasPrefix(line, "---") {
			delims = append(delims, i)
		}
	}
	if len(delims) != 2 {
		return nil, fmt.Errorf("%s: %w (found %d)", filename, ErrMalformedHeader, len(delims))
	}
	begin, end := delims[0], delims[1]

	note := &Note{
		ID:       domain + "/posts/" + noteID(filename),
		Filename: filename,
		To:       []string{PublicAudience},
		context:  noteContext(),
	}

	sawPublished := false
	for _, line := range lines[begin+1 : end] {
		trimmed := strings.TrimSpace(line)
		key, value, found := strings.Cut(trimmed, ": ")
		if !found {
			return nil, fmt.Errorf("%s: %w: %q", filename, ErrMalformedHeaderLine, trimmed)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "published":
			t, err := ParseTime(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
			note.Published = t
			sawPublished = true
		case "sensitive":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w: sensitive must be a boolean, got %q", filename, ErrMalformedHeaderLine, value)
			}
			note.Sensitive = b
		case "to":
			note.To = []string{value}
		case "id", "filename", "content", "@context":
			return nil, fmt.Errorf("%s: %w: %q is computed and cannot be set", filename, ErrMalformedHeaderLine, key)
		default:
			note.setHeader(key, value)
		}
	}

	note.Content = strings.Join(lines[end+1:], "")
	if !sawPublished {
		note.Published = now
	}

	return note, nil
}

// withContent returns a copy of the note carrying different body text.
// Used when Markdown rendering replaces the raw body with HTML.
func (n *Note) withContent(content string) *Note {
	clone := *n
	clone.Content = content
	return &clone
}

// setHeader records a header pair. A repeated key overwrites the earlier
// value but keeps its original position.
func (n *Note) setHeader(key, value string) {
	for i := range n.Headers {
		if n.Headers[i].Key == key {
			n.Headers[i].Value = value
			return
		}
	}
	n.Headers = append(n.Headers, Header{Key: key, Value: value})
}

// noteID strips the final .-delimited extension. A name without one, or
// a dotfile like .gitignore, is used whole.
func noteID(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx]
	}
	return filename
}

// splitLines splits file content into lines with their trailing newline
// kept, so joining the body back preserves the original bytes.
func splitLines(data []byte) []string {
	lines := strings.SplitAfter(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// noteContext builds the JSON-LD marker for a standalone note: the
// ActivityStreams context plus a term mapping filename to schema.org/url.
func noteContext() []any {
	return []any{
		ActivityStreamsContext,
		map[string]any{
			"filename": map[string]string{
				"@id":   "http://schema.org/url",
				"@type": "@id",
			},
		},
	}
}
