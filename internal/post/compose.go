package post

import "strings"

// Segment is one rendered piece of the post body. A segment with a
// non-empty Tag is a hashtag whose visible text is Text; all other
// segments are plain text.
type Segment struct {
	Text string
	Tag  string
}

// Payload is the assembled post, ready for the publish client.
type Payload struct {
	Segments []Segment
	// AltText is the accessible text for the attached media: header plus
	// the final description, with no hashtags.
	AltText string
}

// Text returns the full visible post body.
func (p Payload) Text() string {
	var b strings.Builder
	for _, segment := range p.Segments {
		b.WriteString(segment.Text)
	}
	return b.String()
}

// Tags returns the hashtag values in rendering order.
func (p Payload) Tags() []string {
	var tags []string
	for _, segment := range p.Segments {
		if segment.Tag != "" {
			tags = append(tags, segment.Tag)
		}
	}
	return tags
}

// Compose assembles the final post: header, then the trimmed description
// followed by a separating space when non-empty, then each tag rendered as
// "#tag" with a trailing space. Alt text uses the same description as the
// visible body so the accessible text matches what readers see.
func Compose(header, description string, tags []string) Payload {
	payload := Payload{AltText: header + description}

	if header != "" {
		payload.Segments = append(payload.Segments, Segment{Text: header})
	}
	if trimmed := strings.TrimSpace(description); trimmed != "" {
		payload.Segments = append(payload.Segments,
			Segment{Text: trimmed},
			Segment{Text: " "},
		)
	}
	for _, tag := range tags {
		payload.Segments = append(payload.Segments,
			Segment{Text: "#" + tag, Tag: tag},
			Segment{Text: " "},
		)
	}
	return payload
}
