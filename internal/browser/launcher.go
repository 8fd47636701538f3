package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility is installed
var ErrClipboardUnavailable = errors.New("clipboard is not available")

// Launcher opens links in an external browser and copies them to the clipboard
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	goos    string
	getenv  func(string) string
	start   func(name string, args ...string) error
	logger  *slog.Logger
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		goos:    runtime.GOOS,
		getenv:  os.Getenv,
		start:   startDetached,
		logger:  logger,
	}
}

func startDetached(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// Open opens a web URL
func (l *Launcher) Open(link string) error {
	if err := checkURL(link); err != nil {
		return err
	}

	for _, c := range l.candidates(link) {
		if err := l.start(c.name, c.args...); err != nil {
			l.logger.Debug("launch candidate not available", "command", c.name, "error", err)
			continue
		}
		l.logger.Info("opened link", "command", c.name, "url", link)
		return nil
	}

	return fmt.Errorf("no browser found to open %s", link)
}

type candidate struct {
	name string
	args []string
}

// candidates returns the commands to try in order: configured, $BROWSER, system default
func (l *Launcher) candidates(link string) []candidate {
	var out []candidate

	if l.command != "" {
		args := append(append([]string{}, l.args...), link)
		out = append(out, candidate{l.command, args})
		if l.goos == "darwin" {
			// GUI apps that are not on PATH
			out = append(out, candidate{"open", append([]string{"-a", l.command}, link)})
		}
	}

	if env := l.getenv("BROWSER"); env != "" {
		out = append(out, candidate{env, []string{link}})
	}

	switch l.goos {
	case "darwin":
		out = append(out, candidate{"open", []string{link}})
	case "windows":
		out = append(out, candidate{"rundll32", []string{"url.dll,FileProtocolHandler", link}})
	default:
		out = append(out, candidate{"xdg-open", []string{link}})
	}

	return out
}

func checkURL(link string) error {
	if link == "" {
		return errors.New("no link to open")
	}
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q link", u.Scheme)
	}
	return nil
}

// Copy puts text on the system clipboard
func (l *Launcher) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		l.logger.Warn("clipboard write failed", "error", err)
		return fmt.Errorf("failed to copy: %w", err)
	}
	return nil
}
