// Boxes is an editor for nested box documents.
//
// A document is a box holding rows of boxes, down to text leaves. The editor
// runs in the terminal, zooming out collapses deep nesting, and documents
// are kept in a compact notation either in local files or on a
// boxes-server share server.
//
// Usage:
//
//	boxes [FILE] [flags]
//	boxes [command] [flags]
//
// Running without a command opens the editor. See 'boxes --help' for the
// other commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "boxes [FILE | HANDLE]",
	Short: "Nested box editor",
	Long: `An editor for nested lists drawn as boxes within boxes.

With a FILE argument the document is read from and saved to that file. With
--server or --remote the argument is a handle on a boxes-server. Without an
argument a scratch document is opened that cannot be saved.

If no command is specified, the editor opens.`,
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runEdit,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentPreRunE = initLogging

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("boxes %s (commit: %s)\n", version.Version, version.Commit)
	},
}

// initLogging sets up logging from BOXES_LOG_LEVEL. The editor owns the
// terminal and sets up its own log output.
func initLogging(cmd *cobra.Command, args []string) error {
	if cmd == rootCmd || cmd == editCmd {
		return nil
	}
	return logging.InitializeFromEnv()
}
