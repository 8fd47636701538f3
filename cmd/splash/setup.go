package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/splash/internal/config"
	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/tui/styles"
	"github.com/mmcdole/splash/internal/unsplash"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func newSetupCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "setup",
		Short:        "Save an Unsplash access key to the config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := loadConfig(global)
			if err != nil {
				return err
			}
			defer closeLog(closer)

			return runSetupFlow(cmd.Context(), cmd.OutOrStdout(), cfg, logger)
		},
	}
}

// runSetupFlow prompts for an access key, checks it against the API and saves it
func runSetupFlow(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Welcome to Splash!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Create an application at https://unsplash.com/oauth/applications")
	fmt.Fprintln(out, "and paste its Access Key below.")
	fmt.Fprintln(out)

	reader := bufio.NewReader(os.Stdin)

	// Loop until we get a working key
	var accessKey string
	for {
		fmt.Fprint(out, "Access Key: ")
		key, err := readSecret(reader)
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		accessKey = strings.TrimSpace(key)
		if accessKey == "" {
			fmt.Fprintln(out, "Access key cannot be empty. Please try again.")
			continue
		}

		err = verifyKeyWithSpinner(ctx, out, cfg, accessKey, logger)
		if err == nil {
			break
		}
		if errors.Is(err, context.Canceled) {
			return err
		}

		fmt.Fprintf(out, "✗ %v\n", err)
		if !errors.Is(err, domain.ErrUnauthorized) {
			fmt.Fprintln(out, "The key could not be checked.")
			return err
		}
		fmt.Fprintln(out, "Please check the key and try again.")
		fmt.Fprintln(out)
	}

	cfg.API.AccessKey = accessKey
	file, err := config.Save(cfg, "")
	if err != nil {
		return err
	}
	logger.Info("configuration saved", "file", file)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Configuration saved to %s\n", file)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run splash again to start browsing.")

	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if stdinIsTerminal() {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		return string(b), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// verifyKeyWithSpinner requests a single photo with the key
func verifyKeyWithSpinner(ctx context.Context, out io.Writer, cfg *config.Config, accessKey string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client := unsplash.NewClient(unsplash.Options{
		BaseURL:   cfg.API.BaseURL,
		AccessKey: accessKey,
	}, logger)

	resultCh := make(chan error, 1)
	go func() {
		_, err := client.ListPhotos(ctx, 1, 1)
		resultCh <- err
	}()

	frame := 0
	fmt.Fprintf(out, "\r%s Checking access key...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Fprint(out, clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "✓ Access key accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Fprintf(out, "\r%s Checking access key...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Fprint(out, clearSpinnerLine)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("check timed out")
			}
			return ctx.Err()
		}
	}
}
