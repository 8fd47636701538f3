package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/splash/internal/config"
	"github.com/mmcdole/splash/internal/log"
)

func newCacheCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local photo cache",
	}

	var all bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached photos",
		Long: `Delete cached photos for the configured API endpoint.
With --all, the whole cache directory is removed, including other endpoints.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if all {
				cfg, _, closer, err := loadConfig(global)
				if err != nil {
					return err
				}
				defer closeLog(closer)

				dir, err := log.ExpandHome(cfg.Cache.Dir)
				if err != nil {
					return err
				}
				if dir == "" {
					fmt.Fprintln(out, "Cache is in memory only; nothing to clear.")
					return nil
				}
				if err := config.ClearCache(dir); err != nil {
					return err
				}
				fmt.Fprintf(out, "✓ Cleared %s\n", dir)
				return nil
			}

			a, err := newApp(global)
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.store.Persistent() {
				return fmt.Errorf("photo cache is not available (memory only, or in use by another splash)")
			}
			a.store.InvalidateAll()
			fmt.Fprintf(out, "✓ Cleared cached photos for %s\n", a.cfg.API.BaseURL)
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&all, "all", false, "remove the whole cache directory")

	cmd.AddCommand(clearCmd)
	return cmd
}
