package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
)

// parseRetries is the number of extra sanitize-and-parse cycles after the
// first failure. One retry catches corruption that is only exposed after
// JSON escape processing (an escape sequence decoding into a banned control
// byte); it is a fixed, tested constant, not a general retry policy.
const parseRetries = 1

// Parse structurally parses the sanitized and escaped bytes into a value
// tree. On failure it re-strips control bytes once and retries; a second
// failure returns *UnrecoverableError carrying the parser's best-known
// byte offset.
func Parse(data []byte) (any, error) {
	v, err := decode(data)
	if err == nil {
		return v, nil
	}

	for range parseRetries {
		data = stripControlBytes(data)
		v, err = decode(data)
		if err == nil {
			return v, nil
		}
	}

	return nil, &UnrecoverableError{
		Stage:  "parse",
		Offset: errorOffset(err),
		Err:    err,
	}
}

// decode parses a single JSON value. Numbers stay as json.Number so integer
// coercions later do not lose precision. Trailing bytes after the first
// value are tolerated: the byte sanitizer slices to the outermost braces,
// but recovery stays lenient about what follows.
func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func errorOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Offset
	}
	return -1
}

// SanitizeTree rebuilds the parsed value tree with every string leaf
// re-stripped of disallowed control characters. Escape sequences such as
// \u0007 decode into bytes the byte-level pass could not see. Idempotent;
// non-string scalars pass through unchanged.
func SanitizeTree(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			out[k] = SanitizeTree(child)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			out[i] = SanitizeTree(child)
		}
		return out
	case string:
		return StripControl(node)
	default:
		return v
	}
}
