package manifest

import (
	"encoding/json"
	"fmt"
)

// Repair runs the full repair-and-normalize pipeline on a raw manifest byte
// stream: byte sanitization, string-aware newline escaping, structural
// parsing with one sanitize-and-retry cycle, recursive string sanitization,
// and assembly into the canonical document.
//
// The only failures are *UnrecoverableError (the bytes never became valid
// JSON) and *ShapeError (the root value is not an object). Every per-field
// problem inside a structurally valid manifest is absorbed with a
// deterministic fallback.
func Repair(raw []byte) (*Manifest, error) {
	sanitized := SanitizeBytes(raw)
	escaped := EscapeNewlines(sanitized)

	tree, err := Parse(escaped)
	if err != nil {
		return nil, err
	}

	return Assemble(SanitizeTree(tree))
}

// Assemble orchestrates normalization of a parsed and sanitized value tree:
// chapter list discovery, per-chapter normalization, book normalization with
// the normalized chapters, top-level key pruning, and manifest defaults.
func Assemble(root any) (*Manifest, error) {
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, &ShapeError{Got: typeName(root)}
	}

	rawChapters := discoverChapters(doc)
	chapters := make([]Chapter, 0, len(rawChapters))
	for i, raw := range rawChapters {
		rec, ok := raw.(map[string]any)
		if !ok {
			// Non-object chapter entries carry nothing recoverable.
			continue
		}
		chapters = append(chapters, NormalizeChapter(rec, i))
	}

	bookRec, _ := doc["book"].(map[string]any)
	if bookRec == nil {
		bookRec = map[string]any{}
	}

	m := &Manifest{
		Book:            NormalizeBook(bookRec, chapters),
		Chapters:        chapters,
		ReadyForImport:  true,
		ManifestVersion: ManifestVersion,
	}

	// Only the six canonical top-level keys survive; everything else from
	// the raw input is dropped here. Intentional data loss, see error
	// handling notes in the package docs.
	if v, ok := doc["glossary"]; ok && v != nil {
		m.Glossary = v
	}
	if v, ok := doc["bibliography"]; ok && v != nil {
		m.Bibliography = v
	}
	if b, ok := doc["ready_for_import"].(bool); ok {
		m.ReadyForImport = b
	}
	if s, _ := doc["manifest_version"].(string); s != "" {
		m.ManifestVersion = s
	}

	return m, nil
}

// discoverChapters picks the chapter list from its legacy locations:
// top-level chapters first, then book.chapters one level down.
func discoverChapters(doc map[string]any) []any {
	if list, ok := doc["chapters"].([]any); ok {
		return list
	}
	if book, ok := doc["book"].(map[string]any); ok {
		if list, ok := book["chapters"].([]any); ok {
			return list
		}
	}
	return nil
}

// JSON serializes the canonical manifest as UTF-8 JSON, the pipeline's sole
// output artifact. Serialization is deterministic: struct fields render in
// declaration order and map keys sort lexicographically.
func (m *Manifest) JSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
