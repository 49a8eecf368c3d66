package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"tikvault/internal/bluesky"
	"tikvault/internal/logging"
	"tikvault/internal/media"
	"tikvault/internal/post"
	"tikvault/internal/store"
)

// Publisher is the publish surface the uploader calls. Implemented by
// bluesky.Client.
type Publisher interface {
	PublishVideoPost(ctx context.Context, input bluesky.VideoPost) (bluesky.PostRef, error)
}

// Prober measures a video file before publishing. It matches media.Probe.
type Prober func(ctx context.Context, path string) (media.Info, error)

// Outcome classifies what a run accomplished.
type Outcome int

const (
	// OutcomeNothingPending means no video matched the selection.
	OutcomeNothingPending Outcome = iota
	// OutcomeSkippedMissingMedia means the candidate had no usable media
	// file and was marked uploaded without publishing.
	OutcomeSkippedMissingMedia
	// OutcomePublished means a post was created and the record marked.
	OutcomePublished
)

// String returns a short label for status output.
func (o Outcome) String() string {
	switch o {
	case OutcomeNothingPending:
		return "nothing pending"
	case OutcomeSkippedMissingMedia:
		return "skipped missing media"
	case OutcomePublished:
		return "published"
	}
	return "unknown"
}

// Result reports one run.
type Result struct {
	Outcome Outcome
	VideoID string
	PostURI string
	PostCID string
	Text    string
}

// Uploader wires the store, composer, and publish client together.
type Uploader struct {
	store       store.Store
	publisher   Publisher
	refiner     *post.Refiner
	probe       Prober
	archiveRoot string
	selection   store.Selection
	logger      *slog.Logger
}

// Options configures New. Publisher and Store are required; the rest
// degrade gracefully when absent.
type Options struct {
	Store       store.Store
	Publisher   Publisher
	Refiner     *post.Refiner
	Probe       Prober
	ArchiveRoot string
	Selection   store.Selection
	Logger      *slog.Logger
}

// New constructs an uploader.
func New(opts Options) *Uploader {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Uploader{
		store:       opts.Store,
		publisher:   opts.Publisher,
		refiner:     opts.Refiner,
		probe:       opts.Probe,
		archiveRoot: opts.ArchiveRoot,
		selection:   opts.Selection,
		logger:      logger,
	}
}

// Run publishes at most one pending video.
func (u *Uploader) Run(ctx context.Context) (Result, error) {
	video, err := u.store.NextPending(ctx, u.selection)
	if err != nil {
		return Result{}, fmt.Errorf("next pending: %w", err)
	}
	if video == nil {
		u.logger.Info("no pending videos", "source", string(u.selection.Source))
		return Result{Outcome: OutcomeNothingPending}, nil
	}
	result := Result{VideoID: video.ID}

	path, ok := u.resolveMedia(video)
	if !ok {
		u.logger.Warn("media file missing, marking uploaded to skip",
			"video_id", video.ID,
			"stored_path", video.FilePath)
		if _, err := u.store.MarkUploaded(ctx, video.ID); err != nil {
			return result, fmt.Errorf("mark poison record %s: %w", video.ID, err)
		}
		result.Outcome = OutcomeSkippedMissingMedia
		return result, nil
	}

	header := u.creatorHeader(ctx, video)
	payload := u.compose(ctx, header, video.Description)
	result.Text = payload.Text()

	input := bluesky.VideoPost{Payload: payload}
	if u.probe != nil {
		info, err := u.probe(ctx, path)
		if err != nil {
			u.logger.Warn("probe failed, publishing without aspect ratio",
				"video_id", video.ID, "error", err)
		} else if info.HasDimensions() {
			input.Width = info.Width
			input.Height = info.Height
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("read media %s: %w", path, err)
	}
	input.Video = data

	u.logger.Info("publishing video",
		"video_id", video.ID,
		"path", path,
		"tags", payload.Tags(),
		"text", result.Text)

	ref, err := u.publisher.PublishVideoPost(ctx, input)
	if err != nil {
		return result, fmt.Errorf("publish %s: %w", video.ID, err)
	}
	result.PostURI = ref.URI
	result.PostCID = ref.CID

	marked, err := u.store.MarkUploaded(ctx, video.ID)
	if err != nil {
		return result, fmt.Errorf("mark uploaded %s: %w", video.ID, err)
	}
	if !marked {
		u.logger.Warn("record was already marked uploaded", "video_id", video.ID)
	}

	u.logger.Info("video published",
		"video_id", video.ID,
		"uri", ref.URI)
	result.Outcome = OutcomePublished
	return result, nil
}

// resolveMedia finds the video file, preferring the stored path and falling
// back to a fresh search of the archive.
func (u *Uploader) resolveMedia(video *store.VideoRecord) (string, bool) {
	if video.FilePath != "" {
		if path, ok := media.Resolve(u.archiveRoot, video.FilePath); ok {
			return path, true
		}
	}
	if path, ok := media.Locate(u.archiveRoot, video.ID); ok {
		return path, true
	}
	return "", false
}

// creatorHeader renders the attribution line. An unknown author yields an
// empty header, matching a record imported without its author entry.
func (u *Uploader) creatorHeader(ctx context.Context, video *store.VideoRecord) string {
	if video.AuthorID == "" {
		return ""
	}
	author, err := u.store.GetAuthor(ctx, video.AuthorID)
	if err != nil {
		u.logger.Warn("author lookup failed", "author_id", video.AuthorID, "error", err)
		return ""
	}
	if author == nil {
		return ""
	}
	return fmt.Sprintf("Author: %s Handle: %s\n\n", author.Nickname(), author.Handle())
}

// compose runs the full text pipeline: extract, refine, inject defaults,
// fit the budget, assemble.
func (u *Uploader) compose(ctx context.Context, header, rawDescription string) post.Payload {
	tags, clean := post.Extract(rawDescription)
	tags = u.refiner.Refine(ctx, tags, clean)
	tags = post.InjectDefaults(tags, header, clean, post.DefaultTags, post.DefaultBudget)
	header, description, tags := post.FitBudget(header, clean, tags, post.DefaultBudget)
	return post.Compose(header, description, tags)
}
