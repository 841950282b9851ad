package cursorpagination

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// descendingMarker prefixes the public name of a DESC column in the wire format.
const descendingMarker = "!"

// _encoder is the default token alphabet: standard base64 with padding, the
// format existing tokens were issued in.
var _encoder = base64.StdEncoding

// _decoders are tried in order after the configured encoding.
var _decoders = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

// CursorEntry is one boundary value of a cursor: the public column name, the
// direction the column is sorted in and the row's value for that column.
type CursorEntry struct {
	Column    string
	Direction Direction
	Value     any
}

// key returns the wire key: the public name, prefixed with "!" for DESC columns.
func (e CursorEntry) key() string {
	if e.Direction == DirectionDESC {
		return descendingMarker + e.Column
	}

	return e.Column
}

func parseKey(key string) (string, Direction) {
	if column, ok := strings.CutPrefix(key, descendingMarker); ok {
		return column, DirectionDESC
	}

	return key, DirectionASC
}

// Cursor is the decoded form of a pagination token: boundary values ordered
// the same way as the sort specification, most significant column first.
type Cursor struct {
	entries []CursorEntry
}

func NewCursor(entries ...CursorEntry) *Cursor {
	return &Cursor{
		entries: entries,
	}
}

// DecodeCursor parses a token into *Cursor. An empty token yields a nil cursor.
// Any other failure is a *CursorDecodeError.
func DecodeCursor(token string) (*Cursor, error) {
	return decodeCursor(token, nil)
}

func decodeCursor(token string, preferred *base64.Encoding) (*Cursor, error) {
	if len(token) == 0 {
		return nil, nil
	}

	jsonData, err := decodeBase64(token, preferred)
	if err != nil {
		return nil, newCursorDecodeError("failed to decode base64 encoded cursor: %w", err)
	}

	entries, err := parseCursorObject(jsonData)
	if err != nil {
		return nil, newCursorDecodeError("failed to unmarshal json encoded cursor: %w", err)
	}

	return &Cursor{
		entries: entries,
	}, nil
}

func decodeBase64(token string, preferred *base64.Encoding) ([]byte, error) {
	var firstErr error
	for _, enc := range append([]*base64.Encoding{preferred}, _decoders...) {
		if enc == nil {
			continue
		}

		data, err := enc.DecodeString(token)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

// parseCursorObject reads a JSON object key by key so that the entry order of
// the token is kept.
func parseCursorObject(data []byte) ([]CursorEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("cursor is not a JSON object")
	}

	seen := make(map[string]struct{})
	var entries []CursorEntry
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected cursor key %v", tok)
		}

		var value any
		if err = dec.Decode(&value); err != nil {
			return nil, err
		}

		column, direction := parseKey(key)
		if column == "" {
			return nil, errors.New("empty cursor column name")
		}
		if _, dup := seen[column]; dup {
			return nil, fmt.Errorf("duplicate cursor column '%s'", column)
		}
		seen[column] = struct{}{}

		entries = append(entries, CursorEntry{
			Column:    column,
			Direction: direction,
			Value:     normalizeNumbers(value),
		})
	}

	// Closing brace.
	if _, err = dec.Token(); err != nil {
		return nil, err
	}
	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after cursor object")
	}

	if len(entries) == 0 {
		return nil, errors.New("empty cursor")
	}

	return entries, nil
}

// normalizeNumbers turns json.Number into int64 when integral, float64 otherwise.
func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []any:
		for i := range v {
			v[i] = normalizeNumbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalizeNumbers(v[k])
		}
		return v
	default:
		return value
	}
}

// Encode serializes the cursor with the given alphabet (the default one when
// enc is nil). An empty cursor encodes to "".
func (c *Cursor) Encode(enc *base64.Encoding) (string, error) {
	if c.IsEmpty() {
		return "", nil
	}
	if enc == nil {
		enc = _encoder
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := encodeJSON(&buf, entry.key()); err != nil {
			return "", fmt.Errorf("cannot marshal cursor key: %w", err)
		}
		buf.WriteByte(':')
		if err := encodeJSON(&buf, entry.Value); err != nil {
			return "", fmt.Errorf("cannot marshal cursor value of '%s': %w", entry.Column, err)
		}
	}
	buf.WriteByte('}')

	return enc.EncodeToString(buf.Bytes()), nil
}

// encodeJSON writes v without HTML escaping, so "<", ">" and "&" stay literal
// in the token.
func encodeJSON(buf *bytes.Buffer, v any) error {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return err
	}

	// Encode terminates the value with a newline.
	buf.Write(bytes.TrimSuffix(out.Bytes(), []byte("\n")))

	return nil
}

// String - implements fmt.Stringer. Panics if a value cannot be marshaled;
// use Encode to get the error instead.
func (c *Cursor) String() string {
	token, err := c.Encode(nil)
	if err != nil {
		panic(err)
	}

	return token
}

// IsEmpty reports whether the cursor carries no boundary values.
func (c *Cursor) IsEmpty() bool {
	return c == nil || len(c.entries) == 0
}

// GetEntries returns the boundary values in token order.
func (c *Cursor) GetEntries() []CursorEntry {
	if c == nil {
		return nil
	}

	return c.entries
}

var _ fmt.Stringer = (*Cursor)(nil)
