package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tikvault/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show archive and upload progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("collect stats: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Archive", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "  Authors:   %d\n", stats.Authors)
			fmt.Fprintf(out, "  Videos:    %d\n", stats.Videos)
			fmt.Fprintf(out, "  Following: %d\n", stats.Following)

			if version, err := st.Metadata(cmd.Context(), "schema_version"); err == nil && version != "" {
				fmt.Fprintf(out, "  Schema:    %s\n", version)
			}
			if stamp, err := st.Metadata(cmd.Context(), "import_timestamp"); err == nil && stamp != "" {
				if seconds, err := strconv.ParseInt(stamp, 10, 64); err == nil {
					fmt.Fprintf(out, "  Imported:  %s\n", time.Unix(seconds, 0).Format("2006-01-02 15:04"))
				}
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Upload Progress", colorize) {
				fmt.Fprintln(out, line)
			}

			title := cases.Title(language.Und)
			rows := make([]sourceRow, 0, len(sourceOrder))
			for _, source := range sourceOrder {
				counts := stats.Sources[source]
				rows = append(rows, sourceRow{
					label:    title.String(string(source)),
					pending:  counts.Pending,
					uploaded: counts.Uploaded,
				})
			}
			fmt.Fprintln(out, renderSourceTable(rows))
			return nil
		},
	}
}

var sourceOrder = []store.Source{
	store.SourceLiked,
	store.SourceBookmarked,
	store.SourceCreated,
}
