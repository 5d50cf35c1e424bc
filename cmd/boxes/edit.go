package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/config"
	"github.com/muurk/boxes/internal/editor"
	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/store"
	"github.com/muurk/boxes/internal/tui"
)

// Editor flags
var (
	serverURL string
	remote    bool
	discover  bool
	logFile   string
	logLevel  string
)

func init() {
	for _, c := range []*cobra.Command{rootCmd, editCmd} {
		c.Flags().StringVar(&serverURL, "server", "", "boxes-server URL; the argument is a handle on it")
		c.Flags().BoolVar(&remote, "remote", false, "Treat the argument as a handle on the configured or discovered server")
		c.Flags().BoolVar(&discover, "discover", false, "Pick a server found on the local network")
		c.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file (the terminal is used by the editor)")
		c.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); needs --log-file")
	}
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [FILE | HANDLE]",
	Short: "Open the interactive editor",
	Long: `Open a document in the interactive terminal editor.

Click to place the cursor, drag to pan and scroll to zoom. Zooming out
collapses deeply nested boxes; click a collapsed box to zoom into it.
Press ? inside the editor for the command keys.`,
	Example: `  # Edit a local file (created on first save)
  boxes edit todo.box
  # Or simply:
  boxes todo.box

  # Edit a shared document on a server
  boxes edit todo --server http://192.168.1.20:8420

  # Choose a server from the ones on the local network
  boxes edit todo --discover

  # Keep a debug log while editing
  boxes edit todo.box --log-file boxes.log --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

// target is what the editor opens.
type target struct {
	store    editor.Store
	watcher  store.Watcher
	title    string
	location string
	source   string
}

func runEdit(cmd *cobra.Command, args []string) error {
	// Without a log file the logger stays silent.
	if logFile != "" {
		level := logLevel
		if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
			level = "info"
		}
		if err := logging.InitializeWithOutput(level, logFile); err != nil {
			return err
		}
		defer logging.Sync()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Using default preferences", zap.Error(err))
		registry = config.NewRegistry()
	}
	prefs := registry.Preferences

	t, err := resolveTarget(ctx, prefs, args)
	if err != nil {
		return err
	}

	m := tui.NewEditorModel(ctx, tui.Config{
		Store:      t.store,
		Watcher:    t.watcher,
		Title:      t.title,
		CellWidth:  prefs.CellWidth,
		CellHeight: prefs.CellHeight,
		WheelStep:  prefs.WheelStep,
	})
	if err := m.Load(ctx); err != nil {
		return loadError(t, err)
	}

	if t.location != "" {
		registry.RecordOpen(t.location, t.store.Handle(), t.source)
		if err := registry.Save(); err != nil {
			logging.Warn("Could not record recent document", zap.Error(err))
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("editor failed: %w", err)
	}

	if m.Session().Modified() {
		fmt.Fprintln(os.Stderr, "Unsaved changes were discarded.")
	}
	return nil
}

// resolveTarget picks the store for the command line: a scratch document, a
// file, or a handle on a server.
func resolveTarget(ctx context.Context, prefs *config.Preferences, args []string) (*target, error) {
	if len(args) == 0 {
		if serverURL != "" || remote || discover {
			return nil, fmt.Errorf("a handle is required to edit a shared document")
		}
		return &target{title: "scratch"}, nil
	}
	arg := args[0]

	if serverURL == "" && !remote && !discover {
		path, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}
		f := store.NewFile(path)
		return &target{store: f, watcher: f, title: filepath.Base(arg), location: path, source: config.SourceFile}, nil
	}

	base, err := serverBaseURL(ctx, prefs)
	if err != nil {
		return nil, err
	}
	r, err := store.NewRemote(base, arg)
	if err != nil {
		return nil, err
	}
	return &target{store: r, watcher: r, title: arg + " @ " + base, location: base + "/" + arg, source: config.SourceRemote}, nil
}

func serverBaseURL(ctx context.Context, prefs *config.Preferences) (string, error) {
	switch {
	case serverURL != "":
		return serverURL, nil
	case !discover && prefs.ServerURL != "":
		return prefs.ServerURL, nil
	case discover || prefs.AutoDiscover:
		svc, err := tui.PickServer(ctx, prefs.DiscoverDuration())
		if err != nil {
			return "", fmt.Errorf("server discovery: %w", err)
		}
		return svc.BaseURL(), nil
	default:
		return "", fmt.Errorf("no server configured; pass --server or --discover")
	}
}

func loadError(t *target, err error) error {
	if kind, ok := notation.KindOf(err); ok {
		return fmt.Errorf("%s is not a valid document (%s): %w", t.title, kind, err)
	}
	var se *store.StoreError
	if errors.As(err, &se) {
		return fmt.Errorf("cannot open %s: %s", t.title, store.ShortMessage(err))
	}
	return fmt.Errorf("cannot open %s: %w", t.title, err)
}
