package post

// DefaultBudget is the character limit a composed post must fit in.
const DefaultBudget = 300

// DefaultTags is the fallback tag set appended when a video carries no
// hashtags of its own, or when the budget has room for them.
var DefaultTags = []string{"meme", "tiktok", "archive"}

// InjectDefaults conditionally appends defaults to tags.
//
// An empty tag list always receives the defaults. Otherwise the defaults
// are appended only when the post would still fit the budget with both the
// current tags and the full default set rendered: header + description +
// rendered current tags + rendered defaults, plus one separator character
// charged per tag on both lists.
//
// When defaults are appended the combined list is deduplicated,
// first-seen-wins, case-sensitive. The decision is one-shot: later
// truncation does not re-open it.
func InjectDefaults(tags []string, header, description string, defaults []string, budget int) []string {
	if len(defaults) == 0 {
		return tags
	}
	if len(tags) == 0 {
		return dedupeTags(defaults)
	}

	hypothetical := runeLen(header) + runeLen(description) +
		runeLen(renderTags(tags)) + runeLen(renderTags(defaults)) +
		len(tags) + len(defaults)
	if hypothetical > budget {
		return tags
	}

	combined := make([]string, 0, len(tags)+len(defaults))
	combined = append(combined, tags...)
	combined = append(combined, defaults...)
	return dedupeTags(combined)
}
