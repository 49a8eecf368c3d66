package post

import "strings"

// FitBudget shrinks tags and truncates the description until the rendered
// post fits the budget. It returns the possibly-truncated header and
// description and the surviving tags.
//
// Tags absorb budget pressure first: dropping a tag keeps the remaining
// ones readable, while cutting one mid-word would break it. The shrink loop
// compares only header + rendered tags (plus one separator character per
// tag) against the budget; the description is truncated afterwards to
// whatever room is left.
//
// Tags whose value starts with "fyp" (case-insensitive) are removed first;
// once none remain, tags pop from the end of the list.
//
// When the header alone exceeds the budget even with every tag removed, the
// header itself is truncated to the budget so the output never exceeds it.
func FitBudget(header, description string, tags []string, budget int) (string, string, []string) {
	fitted := make([]string, len(tags))
	copy(fitted, tags)

	nonDescription := nonDescriptionLength(header, fitted)
	for nonDescription > budget && len(fitted) > 0 {
		if idx := firstFypIndex(fitted); idx >= 0 {
			fitted = append(fitted[:idx], fitted[idx+1:]...)
		} else {
			fitted = fitted[:len(fitted)-1]
		}
		nonDescription = nonDescriptionLength(header, fitted)
	}

	if nonDescription > budget {
		header = truncateRunes(header, budget)
		nonDescription = nonDescriptionLength(header, fitted)
	}

	remaining := budget - nonDescription
	if remaining <= 0 {
		description = ""
	} else if runeLen(description) > remaining {
		description = truncateRunes(description, remaining)
	}

	return header, description, fitted
}

// nonDescriptionLength is the rendered length of everything except the
// description: header + "#tag1 #tag2 ..." + one trailing separator space
// charged per tag.
func nonDescriptionLength(header string, tags []string) int {
	return runeLen(header) + runeLen(renderTags(tags)) + len(tags)
}

func firstFypIndex(tags []string) int {
	for i, tag := range tags {
		if strings.HasPrefix(strings.ToLower(tag), "fyp") {
			return i
		}
	}
	return -1
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
