package manifest

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// blockKind classifies the polymorphic content-block shapes that legacy
// chapter fields carry. Classification is by key presence, so the opaque
// fallback only fires when no structural key matched at all.
type blockKind int

const (
	blockScalar blockKind = iota
	blockWithText
	blockWithChildren
	blockOpaque
	blockSequence
	blockEmpty
)

func classifyBlock(v any) blockKind {
	switch b := v.(type) {
	case nil:
		return blockEmpty
	case string, bool, json.Number, float64, int, int64:
		return blockScalar
	case []any:
		return blockSequence
	case map[string]any:
		hasText := hasScalarKey(b, "text") || hasScalarKey(b, "paragraph")
		_, hasContent := b["content"]
		_, hasChildren := b["children"]
		switch {
		case hasContent || hasChildren:
			return blockWithChildren
		case hasText:
			return blockWithText
		default:
			return blockOpaque
		}
	}
	return blockEmpty
}

func hasScalarKey(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && isScalar(v)
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number, float64, int, int64:
		return true
	}
	return false
}

// scalarString renders a scalar content value as prose text.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return StripControl(s)
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	}
	return ""
}

// FlattenBlock produces flattened prose text from a heterogeneous content
// value: a scalar, an object exposing text/paragraph/content/children, an
// opaque object, or a list of any of those. It is total - every input yields
// a string, possibly empty, never an error.
func FlattenBlock(v any) string {
	switch classifyBlock(v) {
	case blockScalar:
		return scalarString(v)
	case blockWithText:
		return flattenTextField(v.(map[string]any))
	case blockWithChildren:
		return flattenComposite(v.(map[string]any))
	case blockOpaque:
		return flattenOpaque(v.(map[string]any))
	case blockSequence:
		return flattenSequence(v.([]any))
	}
	return ""
}

// flattenTextField returns the "text" or "paragraph" field's string form,
// first match wins.
func flattenTextField(m map[string]any) string {
	for _, key := range []string{"text", "paragraph"} {
		if v, ok := m[key]; ok && isScalar(v) {
			return scalarString(v)
		}
	}
	return ""
}

// flattenComposite handles objects carrying nested content: any text-field
// match first, then the flattened content field, then each child. Fragments
// are separated by blank lines.
func flattenComposite(m map[string]any) string {
	var parts []string
	if hasScalarKey(m, "text") || hasScalarKey(m, "paragraph") {
		parts = append(parts, flattenTextField(m))
	}
	if c, ok := m["content"]; ok && c != nil {
		if list, isList := c.([]any); isList {
			for _, el := range list {
				parts = append(parts, FlattenBlock(el))
			}
		} else {
			parts = append(parts, FlattenBlock(c))
		}
	}
	if children, ok := m["children"].([]any); ok {
		for _, el := range children {
			parts = append(parts, FlattenBlock(el))
		}
	}
	return joinFragments(parts, "\n\n")
}

// flattenOpaque is the fallback for objects with no recognized shape: every
// scalar-valued field joined with single newlines. Go maps carry no insertion
// order, so fields are visited in sorted key order for determinism.
func flattenOpaque(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if isScalar(m[k]) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, scalarString(m[k]))
	}
	return joinFragments(parts, "\n")
}

func flattenSequence(list []any) string {
	parts := make([]string, 0, len(list))
	for _, el := range list {
		if el == nil {
			continue
		}
		parts = append(parts, FlattenBlock(el))
	}
	return joinFragments(parts, "\n\n")
}

// joinFragments joins non-empty fragments, dropping whitespace-only ones.
func joinFragments(parts []string, sep string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, sep)
}
