package main

import (
	"context"
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"tikvault/internal/bluesky"
	"tikvault/internal/llm"
	"tikvault/internal/logging"
	"tikvault/internal/media"
	"tikvault/internal/post"
	"tikvault/internal/store"
	"tikvault/internal/uploader"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var authorFlag string
	var maxLengthFlag float64
	var countFlag int

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Publish pending videos to Bluesky",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateBluesky(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.WithComponent(logger, "upload")

			selection, err := buildSelection(cfg.Upload.Source, cfg.Upload.AuthorID, cfg.Upload.MaxVideoLength, sourceFlag, authorFlag, maxLengthFlag)
			if err != nil {
				return err
			}
			if countFlag < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", countFlag)
			}

			lock := flock.New(cfg.Paths.LockFile)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire upload lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another upload run holds %s", cfg.Paths.LockFile)
			}
			defer lock.Unlock()

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			var refiner *post.Refiner
			if cfg.LLM.Enabled {
				client := llm.NewClient(llm.Config{
					APIKey:         cfg.LLM.APIKey,
					BaseURL:        cfg.LLM.BaseURL,
					Model:          cfg.LLM.Model,
					TimeoutSeconds: cfg.LLM.TimeoutSeconds,
				})
				refiner = post.NewRefiner(client, cfg.LLM.MaxTags, logger)
			}

			publisher := bluesky.NewClient(bluesky.Config{
				Host:           cfg.Bluesky.Host,
				Identifier:     cfg.Bluesky.Identifier,
				Password:       cfg.Bluesky.Password,
				TimeoutSeconds: cfg.Bluesky.TimeoutSeconds,
			})

			binary := cfg.Upload.FFprobeBinary
			up := uploader.New(uploader.Options{
				Store:     st,
				Publisher: publisher,
				Refiner:   refiner,
				Probe: func(probeCtx context.Context, path string) (media.Info, error) {
					return media.Probe(probeCtx, binary, path)
				},
				ArchiveRoot: cfg.Paths.ArchiveDir,
				Selection:   selection,
				Logger:      logger,
			})

			out := cmd.OutOrStdout()
			for i := 0; i < countFlag; i++ {
				result, err := up.Run(cmd.Context())
				if err != nil {
					return err
				}
				switch result.Outcome {
				case uploader.OutcomeNothingPending:
					fmt.Fprintf(out, "No pending videos for source %q\n", selection.Source)
					return nil
				case uploader.OutcomeSkippedMissingMedia:
					fmt.Fprintf(out, "Skipped %s: media file missing\n", result.VideoID)
				case uploader.OutcomePublished:
					fmt.Fprintf(out, "Published %s\n  %s\n", result.VideoID, result.PostURI)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Override upload.source (liked, bookmarked, created)")
	cmd.Flags().StringVar(&authorFlag, "author", "", "Restrict created-source selection to one author id")
	cmd.Flags().Float64Var(&maxLengthFlag, "max-length", 0, "Override upload.max_video_length in seconds")
	cmd.Flags().IntVar(&countFlag, "count", 1, "Number of videos to publish this run")
	return cmd
}

func buildSelection(cfgSource, cfgAuthor string, cfgMaxLength float64, sourceFlag, authorFlag string, maxLengthFlag float64) (store.Selection, error) {
	raw := cfgSource
	if sourceFlag != "" {
		raw = sourceFlag
	}
	source, ok := store.ParseSource(raw)
	if !ok {
		return store.Selection{}, fmt.Errorf("unknown source %q (expected liked, bookmarked, or created)", raw)
	}

	selection := store.Selection{
		Source:           source,
		AuthorID:         cfgAuthor,
		MaxLengthSeconds: cfgMaxLength,
	}
	if authorFlag != "" {
		selection.AuthorID = authorFlag
	}
	if maxLengthFlag > 0 {
		selection.MaxLengthSeconds = maxLengthFlag
	}
	return selection, nil
}
