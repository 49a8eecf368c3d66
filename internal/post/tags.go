package post

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// hashtagPattern matches a # followed by word characters. Unicode letters
// and digits count as word characters, so non-English tags survive.
var (
	hashtagPattern    = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Extract splits rawDescription into its hashtags and the remaining text.
// Tags keep their left-to-right order and duplicates; the clean description
// has every hashtag removed, whitespace collapsed to single spaces, and
// leading/trailing whitespace trimmed.
func Extract(rawDescription string) (tags []string, clean string) {
	for _, match := range hashtagPattern.FindAllStringSubmatch(rawDescription, -1) {
		tags = append(tags, match[1])
	}
	clean = hashtagPattern.ReplaceAllString(rawDescription, "")
	clean = whitespacePattern.ReplaceAllString(clean, " ")
	return tags, strings.TrimSpace(clean)
}

// renderTags renders a tag list the way it appears in the post body:
// "#tag1 #tag2 ... #tagN".
func renderTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var b strings.Builder
	for i, tag := range tags {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('#')
		b.WriteString(tag)
	}
	return b.String()
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// dedupeTags keeps the first occurrence of each exact tag value, preserving
// relative order.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		unique = append(unique, tag)
	}
	return unique
}
