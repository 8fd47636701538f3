package main

import (
	"context"
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/gallery"
)

type photosOptions struct {
	pages  int
	match  string
	format string
}

func newPhotosCmd(global *globalOptions) *cobra.Command {
	opts := &photosOptions{}

	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List photos from the feed",
		Long: `List photos from the editorial feed, one page after another, without the
interactive gallery. Duplicate photos across pages are listed once.`,
		Example: `  splash photos --pages 3
  splash photos --match "mountain" -o json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(opts.format); err != nil {
				return err
			}
			if opts.pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			a, err := newApp(global)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.IsConfigured() {
				return domain.ErrNotConfigured
			}

			photos, err := collectPages(cmd.Context(), a.feed, opts.pages)
			if err != nil {
				return err
			}
			photos = filterPhotos(photos, opts.match)

			out := cmd.OutOrStdout()
			if opts.format == formatText {
				return writePhotoTable(out, photos)
			}
			records := make([]photoRecord, len(photos))
			for i, p := range photos {
				records[i] = toRecord(p)
			}
			return encode(out, opts.format, records)
		},
	}

	cmd.Flags().IntVarP(&opts.pages, "pages", "p", 1, "number of pages to load")
	cmd.Flags().StringVarP(&opts.match, "match", "m", "", "only list photos whose author or title fuzzy-matches")
	cmd.Flags().StringVarP(&opts.format, "output", "o", formatText, "output format: text, json or yaml")

	return cmd
}

// collectPages loads up to n pages through the feed controller. A failure after
// the first page keeps what was loaded.
func collectPages(ctx context.Context, feed *gallery.Controller[*domain.Photo], n int) ([]*domain.Photo, error) {
loop:
	for range n {
		result := feed.LoadNext(ctx)
		switch result.Outcome {
		case gallery.OutcomeFailed:
			if feed.Len() == 0 {
				return nil, result.Err
			}
			break loop
		case gallery.OutcomeExhausted:
			break loop
		}
	}
	return feed.Snapshot().Items, nil
}

// filterPhotos keeps photos whose "author title" contains query as a fuzzy subsequence
func filterPhotos(photos []*domain.Photo, query string) []*domain.Photo {
	if query == "" {
		return photos
	}
	var out []*domain.Photo
	for _, p := range photos {
		if fuzzy.MatchNormalizedFold(query, p.Author()+" "+p.Title()) {
			out = append(out, p)
		}
	}
	return out
}
