package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe token from a title: lowercased, every run of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func Slugify(s string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// NormalizeChapter maps an arbitrary raw chapter record to the canonical
// chapter shape. pos is the chapter's position in the discovered list, the
// last resort for ordering when the record carries neither an order nor a
// number field. Every step is individually total: all coercions have an
// explicit fallback, so this never fails regardless of input shape.
func NormalizeChapter(raw map[string]any, pos int) Chapter {
	ch := Chapter{
		Tags:   []string{},
		Themes: []string{},
	}

	// Ordering: order wins unless it is missing or coerces to zero, then
	// the coerced number field, then the list position.
	number := 0
	_, hasNumber := raw["number"]
	if hasNumber {
		number, _ = toInt(raw["number"])
	}
	ch.Order = number
	if v, hasOrder := raw["order"]; hasOrder {
		if o, _ := toInt(v); o != 0 {
			ch.Order = o
		}
	} else if !hasNumber {
		ch.Order = pos
	}
	if ch.Order < 0 {
		ch.Order = 0
	}

	rawTitle, _ := raw["title"].(string)
	rawTitle = StripControl(rawTitle)
	if rawTitle != "" {
		ch.Title = rawTitle
	} else {
		ch.Title = fmt.Sprintf("Chapter %d", ch.Order)
	}

	// Caller-supplied slugs are trusted verbatim apart from the control
	// strip; only absent or empty slugs are derived.
	if s, _ := raw["slug"].(string); StripControl(s) != "" {
		ch.Slug = StripControl(s)
	} else {
		base := rawTitle
		if base == "" {
			base = fmt.Sprintf("chapter-%d", ch.Order)
		}
		ch.Slug = Slugify(base)
	}

	if s, ok := raw["summary"].(string); ok {
		ch.Summary = StripControl(s)
	}
	if s, ok := raw["subtitle"].(string); ok {
		ch.Subtitle = StripControl(s)
	}
	if s, ok := raw["location"].(string); ok {
		ch.Location = StripControl(s)
	}

	ch.Tags = coerceList(raw["tags"])
	ch.Themes = coerceList(raw["themes"])

	ch.Body = resolveBody(raw)

	// word_count is kept only when the record already carried a usable one;
	// otherwise aggregation derives it from the body at book level.
	if v, ok := raw["word_count"]; ok {
		if wc, valid := toInt(v); valid {
			ch.WordCount = &wc
		}
	}

	if v, ok := raw["cover_image"]; ok && v != nil {
		ch.CoverImage = v
	}
	if media, ok := raw["media"].([]any); ok {
		ch.Media = media
	}
	if meta, ok := raw["metadata"].(map[string]any); ok {
		ch.Metadata = meta
	}

	// The legacy source fields (content, paragraphs, text) and deprecated
	// fields (audio_url, published, ...) are absent from the canonical
	// struct, so pruning falls out of the mapping itself.
	return ch
}

// resolveBody picks the chapter body: a non-empty flat body field wins;
// otherwise the legacy content-block fields are flattened in priority order
// content, paragraphs, text, first non-empty result wins.
func resolveBody(raw map[string]any) string {
	if s, ok := raw["body"].(string); ok && strings.TrimSpace(s) != "" {
		return StripControl(s)
	}
	for _, key := range []string{"content", "paragraphs", "text"} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if text := StripControl(FlattenBlock(v)); text != "" {
			return text
		}
	}
	return ""
}
