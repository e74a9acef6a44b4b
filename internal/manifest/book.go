package manifest

// NormalizeBook maps a raw book record - possibly empty - to the canonical
// book shape, computing derived aggregates from the already-normalized
// chapter list. Never fails.
func NormalizeBook(raw map[string]any, chapters []Chapter) Book {
	b := Book{
		Title:  DefaultBookTitle,
		Author: DefaultBookAuthor,
		Genre:  []string{},
		Tags:   []string{},
	}

	if s, _ := raw["title"].(string); StripControl(s) != "" {
		b.Title = StripControl(s)
	}
	if s, _ := raw["author"].(string); StripControl(s) != "" {
		b.Author = StripControl(s)
	}
	if s, ok := raw["subtitle"].(string); ok {
		b.Subtitle = StripControl(s)
	}
	if s, ok := raw["description"].(string); ok {
		b.Description = StripControl(s)
	}

	b.Genre = coerceList(raw["genre"])
	b.Tags = coerceList(raw["tags"])

	// Legacy key migration: published_date moves to publication_date only
	// when the new key is absent. A present-but-empty publication_date is
	// respected as-is. The old key does not survive in the output.
	if v, present := raw["publication_date"]; present {
		if s, _ := v.(string); s != "" {
			b.PublicationDate = StripControl(s)
		}
	} else if s, ok := raw["published_date"].(string); ok {
		b.PublicationDate = StripControl(s)
	}

	// Aggregates are only computed when at least one chapter exists. A zero
	// word sum is stored as null: "unknown" rather than "verified empty".
	if len(chapters) > 0 {
		total := len(chapters)
		b.TotalChapters = &total

		sum := 0
		for _, ch := range chapters {
			if ch.WordCount != nil {
				sum += *ch.WordCount
			} else {
				sum += tokenCount(ch.Body)
			}
		}
		if sum == 0 {
			b.TotalWordCount = UnknownCount()
		} else {
			b.TotalWordCount = KnownCount(sum)
		}
	}

	return b
}
