package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/splash/internal/tui"
)

// globalOptions are the flags shared by every command
type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "splash [photo-id]",
		Short: "Browse Unsplash photos in the terminal",
		Long: `Splash is a terminal photo gallery for the Unsplash editorial feed.

Scroll to load more photos, press enter to open one. Passing a photo ID
opens that photo directly.

The access key is read from the config file or from SPLASH_API_ACCESS_KEY,
UNSPLASH_ACCESS_KEY or REACT_APP_UNSPLASH_ACCESS_KEY, including .env files.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var startID string
			if len(args) == 1 {
				startID = args[0]
			}
			return runTUI(cmd, opts, startID)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default is the user config dir, then ./config.yaml)")

	cmd.AddCommand(
		newPhotosCmd(opts),
		newShowCmd(opts),
		newSetupCmd(opts),
		newCacheCmd(opts),
	)

	return cmd
}

func runTUI(cmd *cobra.Command, opts *globalOptions, startID string) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting splash", "version", Version, "config", a.cfg.File)

	if !a.cfg.IsConfigured() {
		if !stdinIsTerminal() {
			return fmt.Errorf("no access key configured: set UNSPLASH_ACCESS_KEY or run 'splash setup'")
		}
		return runSetupFlow(cmd.Context(), cmd.OutOrStdout(), a.cfg, a.logger)
	}

	model := tui.NewModel(a.feed, a.photos, a.queries, a.launcher, tui.Options{
		PrefetchRows: a.cfg.Gallery.PrefetchRows,
		Debounce:     a.cfg.Gallery.Debounce,
		StartPhotoID: startID,
		Logger:       a.logger,
	})
	defer model.Shutdown()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
