package schema

import (
	"strings"
	"testing"

	"github.com/jackzampolin/folio/internal/manifest"
)

func TestValidateCanonicalManifest(t *testing.T) {
	m, err := manifest.Repair([]byte(`{
		"book": {"title": "T", "author": "A"},
		"chapters": [
			{"order": 1, "title": "One", "body": "some words here"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	if err := Validate(m); err != nil {
		t.Errorf("canonical manifest should validate: %v", err)
	}
}

func TestValidateEmptyChapterManifest(t *testing.T) {
	m, err := manifest.Repair([]byte(`{"book": {"title": "T"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(m); err != nil {
		t.Errorf("manifest without chapters should validate: %v", err)
	}
}

func TestValidateNullWordCount(t *testing.T) {
	// Chapters with no recoverable text produce total_word_count: null,
	// which the schema accepts as "unknown".
	m, err := manifest.Repair([]byte(`{
		"book": {"title": "T", "author": "A"},
		"chapters": [{"order": 1, "title": "Empty"}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(m); err != nil {
		t.Errorf("null total_word_count should validate: %v", err)
	}
}

func TestValidateBytesRejectsWrongShape(t *testing.T) {
	err := ValidateBytes([]byte(`{"book": {"title": "T", "author": "A"}, "chapters": "not a list", "ready_for_import": true, "manifest_version": "1.0"}`))
	if err == nil {
		t.Fatal("expected validation error for non-array chapters")
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateBytesRejectsMissingBook(t *testing.T) {
	err := ValidateBytes([]byte(`{"chapters": [], "ready_for_import": true, "manifest_version": "1.0"}`))
	if err == nil {
		t.Fatal("expected validation error for missing book")
	}
}
