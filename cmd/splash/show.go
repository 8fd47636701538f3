package main

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/splash/internal/domain"
)

func newShowCmd(global *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:          "show <photo-id>",
		Short:        "Print the details of one photo",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			a, err := newApp(global)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.IsConfigured() {
				return domain.ErrNotConfigured
			}

			p, err := a.photos.FetchPhoto(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == formatText {
				return writePhotoDetail(out, p)
			}
			return encode(out, format, toRecord(p))
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")

	return cmd
}
