package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tikvault/internal/archive"
	"tikvault/internal/logging"
	"tikvault/internal/media"
	"tikvault/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var factsPath string
	var skipProbe bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a TikTok export's facts.json into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logging.WithComponent(logger, "import")

			path := strings.TrimSpace(factsPath)
			if path == "" {
				if cfg.Paths.ArchiveDir == "" {
					return fmt.Errorf("no facts.json path: set paths.archive_dir or pass --facts-json")
				}
				path = archive.DefaultFactsPath(cfg.Paths.ArchiveDir)
			}

			export, err := archive.LoadExport(path)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			var probe archive.Prober
			if !skipProbe {
				binary := cfg.Upload.FFprobeBinary
				probe = func(probeCtx context.Context, path string) (media.Info, error) {
					return media.Probe(probeCtx, binary, path)
				}
			}

			importer := archive.NewImporter(st, cfg.Paths.ArchiveDir, probe, logger)
			summary, err := importer.Run(cmd.Context(), export)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d authors\n", summary.Authors)
			fmt.Fprintf(out, "Imported %d videos (%d with media file, %d with length)\n",
				summary.Videos, summary.VideosWithFile, summary.VideosWithLength)
			fmt.Fprintf(out, "Imported %d liked videos", summary.Liked)
			if summary.LikedMissing > 0 {
				fmt.Fprintf(out, " (%d not in export)", summary.LikedMissing)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Imported %d bookmarked videos", summary.Bookmarked)
			if summary.BookmarkedMissing > 0 {
				fmt.Fprintf(out, " (%d not in export)", summary.BookmarkedMissing)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Imported %d followed authors\n", summary.Following)
			if summary.UserImported {
				fmt.Fprintf(out, "User info imported: %s (%s)\n", export.User.UniqueID, export.User.Nickname)
			}
			fmt.Fprintln(out, "Import completed successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&factsPath, "facts-json", "", "Path to facts.json (default <archive_dir>/data/.appdata/facts.json)")
	cmd.Flags().BoolVar(&skipProbe, "skip-probe", false, "Skip ffprobe length detection during import")
	return cmd
}
