package post

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"tikvault/internal/logging"
)

// TagSuggester is the remote surface a Refiner calls. Implemented by
// llm.Client; the reply is the model's raw text.
type TagSuggester interface {
	SuggestTags(ctx context.Context, description string, tags []string, maxTags int) (string, error)
}

// Refiner optionally replaces an extracted tag list with a model-curated
// one. Every failure degrades locally: a transport error keeps the first
// maxTags input tags, an unparseable reply is comma-split. One attempt, no
// retries.
type Refiner struct {
	suggester TagSuggester
	maxTags   int
	logger    *slog.Logger
}

// NewRefiner builds a Refiner. A nil suggester yields a pass-through
// refiner that returns input tags unchanged.
func NewRefiner(suggester TagSuggester, maxTags int, logger *slog.Logger) *Refiner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Refiner{suggester: suggester, maxTags: maxTags, logger: logger}
}

// Refine returns a possibly-different tag list for the description.
func (r *Refiner) Refine(ctx context.Context, tags []string, description string) []string {
	if r == nil || r.suggester == nil {
		return tags
	}

	reply, err := r.suggester.SuggestTags(ctx, description, tags, r.maxTags)
	if err != nil {
		r.logger.Warn("tag refinement failed, keeping original tags",
			slog.Any("error", err),
			slog.Int("max_tags", r.maxTags),
		)
		if len(tags) > r.maxTags {
			return tags[:r.maxTags]
		}
		return tags
	}

	refined := parseTagReply(reply)
	r.logger.Debug("tag refinement applied",
		slog.Int("input_tags", len(tags)),
		slog.Int("refined_tags", len(refined)),
	)
	return refined
}

// parseTagReply interprets a model reply as either a JSON array of strings
// or a comma-separated list. The JSON form is trusted verbatim.
func parseTagReply(reply string) []string {
	trimmed := strings.TrimSpace(reply)

	var parsed []string
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		return parsed
	}

	var tags []string
	for _, piece := range strings.Split(trimmed, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			tags = append(tags, piece)
		}
	}
	return tags
}
