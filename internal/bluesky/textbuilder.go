package bluesky

import (
	"strings"

	"tikvault/internal/post"
)

// Facet is an app.bsky.richtext.facet annotation over a byte range of the
// post text. Offsets are UTF-8 byte positions, per the richtext spec.
type Facet struct {
	Index    ByteSlice `json:"index"`
	Features []Feature `json:"features"`
}

// ByteSlice marks the [ByteStart, ByteEnd) range a facet covers.
type ByteSlice struct {
	ByteStart int `json:"byteStart"`
	ByteEnd   int `json:"byteEnd"`
}

// Feature is the single facet feature kind we emit: a tag.
type Feature struct {
	Type string `json:"$type"`
	Tag  string `json:"tag"`
}

const tagFeatureType = "app.bsky.richtext.facet#tag"

// BuildText renders the composed payload into the final post text plus the
// tag facets covering each "#tag" token. Facet offsets are byte positions
// into the returned text, so multi-byte descriptions shift them correctly.
func BuildText(payload post.Payload) (string, []Facet) {
	var b strings.Builder
	var facets []Facet

	for _, segment := range payload.Segments {
		if segment.Tag != "" {
			start := b.Len()
			b.WriteString(segment.Text)
			facets = append(facets, Facet{
				Index:    ByteSlice{ByteStart: start, ByteEnd: b.Len()},
				Features: []Feature{{Type: tagFeatureType, Tag: segment.Tag}},
			})
			continue
		}
		b.WriteString(segment.Text)
	}

	return strings.TrimRight(b.String(), " "), facets
}
