// Package output persists a finished result set.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"iplstats/internal/model"
)

// JSONWriter renders a result set the way JSON.stringify(v, null, 2) does for
// valid UTF-8 text: two-space indent, no HTML escaping, U+2028 and U+2029
// left as literal characters, no trailing newline. Invalid UTF-8 becomes
// U+FFFD.
type JSONWriter struct {
	output io.Writer
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent overrides the per-level indentation string.
func WithIndent(indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = indent
	}
}

func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		output: output,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write serialises the whole set in one call to the underlying writer.
func (w *JSONWriter) Write(rs model.ResultSet) (int, error) {
	data, err := Marshal(rs, w.indent)
	if err != nil {
		return 0, err
	}
	return w.output.Write(data)
}

// Marshal encodes rs with the given indent. Empty sets and leaderboards are
// rendered as [] rather than null.
func Marshal(rs model.ResultSet, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(rs.Normalized()); err != nil {
		return nil, fmt.Errorf("encode result set: %w", err)
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into the raw characters. A backslash that is itself
// escaped never starts a sequence.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+5 < len(data) && data[i+1] == 'u' {
			switch string(data[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// FileSink writes the result set to Path, replacing any previous contents.
type FileSink struct {
	Path string
}

func (s FileSink) Write(rs model.ResultSet) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	if _, err := NewJSONWriter(f).Write(rs); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.Path, err)
	}
	return nil
}
