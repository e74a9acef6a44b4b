package manifest

import (
	"encoding/json"
	"testing"
)

func TestFlattenBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"string scalar", "hello", "hello"},
		{"number scalar", json.Number("42"), "42"},
		{"bool scalar", true, "true"},
		{"string with control bytes", "he\x00llo", "hello"},
		{
			name:     "text field",
			input:    map[string]any{"text": "paragraph one"},
			expected: "paragraph one",
		},
		{
			name:     "paragraph field",
			input:    map[string]any{"paragraph": "paragraph two"},
			expected: "paragraph two",
		},
		{
			name:     "text wins over paragraph",
			input:    map[string]any{"text": "from text", "paragraph": "from paragraph"},
			expected: "from text",
		},
		{
			name:     "content as single nested block",
			input:    map[string]any{"content": map[string]any{"text": "nested"}},
			expected: "nested",
		},
		{
			name: "content as list",
			input: map[string]any{"content": []any{
				"first", "second",
			}},
			expected: "first\n\nsecond",
		},
		{
			name: "text then content then children",
			input: map[string]any{
				"text":     "intro",
				"content":  []any{"middle"},
				"children": []any{map[string]any{"text": "child"}},
			},
			expected: "intro\n\nmiddle\n\nchild",
		},
		{
			name: "opaque object concatenates scalar fields",
			input: map[string]any{
				"alpha": "one",
				"beta":  "two",
				"gamma": []any{"ignored"},
			},
			expected: "one\ntwo",
		},
		{
			name:     "empty object",
			input:    map[string]any{},
			expected: "",
		},
		{
			name:     "list joins with blank lines",
			input:    []any{"a", "b", "c"},
			expected: "a\n\nb\n\nc",
		},
		{
			name:     "list skips nulls",
			input:    []any{"a", nil, "b"},
			expected: "a\n\nb",
		},
		{
			name:     "whitespace-only fragments dropped",
			input:    []any{"a", "   ", "b"},
			expected: "a\n\nb",
		},
		{
			name: "mixed-type list",
			input: []any{
				"text",
				json.Number("7"),
				map[string]any{"paragraph": "para"},
				[]any{"nested"},
			},
			expected: "text\n\n7\n\npara\n\nnested",
		},
		{
			name:     "structural key present but empty suppresses opaque fallback",
			input:    map[string]any{"content": []any{}, "note": "ignored"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenBlock(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

// Flattening must be total: no input shape may panic, including deeply
// nested structures.
func TestFlattenBlockTotality(t *testing.T) {
	deep := any("leaf")
	for range 200 {
		deep = map[string]any{"content": deep}
	}

	adversarial := []any{
		deep,
		map[string]any{"children": "not a list"},
		map[string]any{"content": nil},
		map[string]any{"text": map[string]any{"not": "scalar"}},
		[]any{[]any{[]any{}}},
	}

	for i, input := range adversarial {
		got := FlattenBlock(input)
		_ = got
		_ = i // reaching here without a panic is the assertion
	}

	if got := FlattenBlock(deep); got != "leaf" {
		t.Errorf("deep nesting: got %q, want %q", got, "leaf")
	}
}
