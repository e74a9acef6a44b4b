package manifest

import (
	"bytes"
	"regexp"
	"strings"
)

// Disallowed control ranges: 0x00-0x08, 0x0B-0x0C, 0x0E-0x1F. Tab (0x09),
// LF (0x0A), and CR (0x0D) survive the byte-level pass because they are
// handled structurally by the newline escaper.
func isBannedControl(b byte) bool {
	switch {
	case b <= 0x08:
		return true
	case b == 0x0B || b == 0x0C:
		return true
	case b >= 0x0E && b <= 0x1F:
		return true
	}
	return false
}

// truncationLine matches editorial truncation placeholders that generative
// producers leave behind, e.g. "... (truncated for brevity) ...".
var truncationLine = regexp.MustCompile(`^\s*\.\.\.\s*\(truncated[^)]*\)\s*\.\.\.\s*$`)

// StripControl removes the disallowed control bytes from s.
func StripControl(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 && isBannedControl(byte(r)) }) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isBannedControl(s[i]) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// stripControlBytes removes the disallowed control bytes from raw.
func stripControlBytes(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		if isBannedControl(b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SanitizeBytes reconstructs a candidate JSON byte string from a raw stream
// that may contain non-JSON prose around or inside it. It strips disallowed
// control bytes, drops editorial placeholder lines (truncation markers and
// bare "---" rules), and slices the buffer to the first "{" through the last
// "}" when both exist. Absence of braces is not an error here; that is
// deferred to the parser.
func SanitizeBytes(raw []byte) []byte {
	cleaned := stripControlBytes(raw)

	lines := bytes.Split(cleaned, []byte("\n"))
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(string(bytes.TrimSuffix(line, []byte("\r"))))
		if trimmed == "---" || truncationLine.MatchString(trimmed) {
			continue
		}
		kept = append(kept, line)
	}
	cleaned = bytes.Join(kept, []byte("\n"))

	start := bytes.IndexByte(cleaned, '{')
	end := bytes.LastIndexByte(cleaned, '}')
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}
	return cleaned
}

// scanState tracks string-literal context in EscapeNewlines. An explicit
// state enum avoids inconsistent flag combinations.
type scanState int

const (
	stateOutside scanState = iota
	stateInString
	stateInStringEscaped
)

// EscapeNewlines replaces raw line breaks that appear inside string literals
// with the two-byte sequence `\n`, leaving structural whitespace outside
// strings untouched. Carriage returns inside strings are also normalized to
// `\n`, not `\r`; CR-only and CRLF content are indistinguishable after
// recovery. That loss is intentional and kept for compatibility.
//
// The scanner tracks only string and escape state, not full JSON grammar.
// An unterminated string at end of buffer leaves the scanner in string mode,
// which is accepted: the parser reports the failure downstream.
func EscapeNewlines(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	state := stateOutside

	for i := 0; i < len(raw); i++ {
		b := raw[i]
		switch state {
		case stateOutside:
			if b == '"' {
				state = stateInString
			}
			out = append(out, b)
		case stateInString:
			switch b {
			case '\\':
				state = stateInStringEscaped
				out = append(out, b)
			case '"':
				state = stateOutside
				out = append(out, b)
			case '\n':
				out = append(out, '\\', 'n')
			case '\r':
				// Swallow the LF of a CRLF pair so it does not double.
				if i+1 < len(raw) && raw[i+1] == '\n' {
					i++
				}
				out = append(out, '\\', 'n')
			default:
				out = append(out, b)
			}
		case stateInStringEscaped:
			// Whatever follows a backslash passes through untouched,
			// preserving legitimate escape sequences.
			state = stateInString
			out = append(out, b)
		}
	}
	return out
}
