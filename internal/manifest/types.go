// Package manifest implements the repair-and-normalize pipeline for book
// import manifests. The input is an untrusted byte stream that is almost
// valid JSON - typically produced by a generative process - and may contain
// stray control bytes, raw newlines inside string literals, editorial
// placeholder lines, and inconsistent field shapes across chapters. The
// pipeline recovers a single canonical document without ever crashing on
// adversarial input.
//
// The pipeline is a pure transformation: no I/O, no ambient state. Many
// imports can run concurrently without coordination.
package manifest

import "encoding/json"

// ManifestVersion is the default schema version stamped on output.
const ManifestVersion = "1.0"

// Default values used when the raw book record lacks required fields.
const (
	DefaultBookTitle  = "Untitled"
	DefaultBookAuthor = "Unknown"
)

// Manifest is the canonical top-level document. Only these six keys survive
// assembly; every other top-level key in the raw input is dropped.
type Manifest struct {
	Book            Book      `json:"book"`
	Chapters        []Chapter `json:"chapters"`
	Glossary        any       `json:"glossary,omitempty"`
	Bibliography    any       `json:"bibliography,omitempty"`
	ReadyForImport  bool      `json:"ready_for_import"`
	ManifestVersion string    `json:"manifest_version"`
}

// Book is the canonical book record. TotalChapters and TotalWordCount are
// derived from the normalized chapter list and only present when the
// manifest has at least one chapter.
type Book struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Subtitle        string   `json:"subtitle,omitempty"`
	Description     string   `json:"description,omitempty"`
	Genre           []string `json:"genre"`
	Tags            []string `json:"tags"`
	PublicationDate string   `json:"publication_date,omitempty"`
	TotalChapters   *int     `json:"total_chapters,omitempty"`
	TotalWordCount  *Count   `json:"total_word_count,omitempty"`
}

// Chapter is the canonical chapter record. The order field is advisory:
// consumers must sort by it explicitly before display.
type Chapter struct {
	Order      int            `json:"order"`
	Title      string         `json:"title"`
	Slug       string         `json:"slug"`
	Subtitle   string         `json:"subtitle,omitempty"`
	Location   string         `json:"location,omitempty"`
	Summary    string         `json:"summary"`
	Body       string         `json:"body"`
	WordCount  *int           `json:"word_count,omitempty"`
	Tags       []string       `json:"tags"`
	Themes     []string       `json:"themes"`
	CoverImage any            `json:"cover_image,omitempty"`
	Media      []any          `json:"media,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// CoverImage is the structured cover image shape. Raw manifests may carry a
// bare URL string instead; UpgradeCoverImage lifts either form into this one.
type CoverImage struct {
	URL     string `json:"url"`
	Concept string `json:"concept,omitempty"`
	AltText string `json:"alt_text,omitempty"`
}

// UpgradeCoverImage converts a chapter's cover_image value - a bare URL
// string or an already-structured object - into the structured shape.
// Returns nil if the value has neither form. Read endpoints apply this at
// serve time when the upgrade was not already present in the import.
func UpgradeCoverImage(v any) *CoverImage {
	switch cv := v.(type) {
	case string:
		if cv == "" {
			return nil
		}
		return &CoverImage{URL: cv}
	case map[string]any:
		ci := &CoverImage{
			URL:     stringField(cv, "url"),
			Concept: stringField(cv, "concept"),
			AltText: stringField(cv, "alt_text"),
		}
		if ci.URL == "" && ci.Concept == "" && ci.AltText == "" {
			return nil
		}
		return ci
	case CoverImage:
		return &cv
	case *CoverImage:
		return cv
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// Count is an integer aggregate that distinguishes "unknown" from a known
// value. An unknown count marshals as JSON null rather than 0, so downstream
// consumers can tell "no usable count" apart from "verified zero".
type Count struct {
	Known bool
	Value int
}

// KnownCount returns a Count holding v.
func KnownCount(v int) *Count {
	return &Count{Known: true, Value: v}
}

// UnknownCount returns a Count that marshals as null.
func UnknownCount() *Count {
	return &Count{}
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Known {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

func (c *Count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Count{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Count{Known: true, Value: v}
	return nil
}
