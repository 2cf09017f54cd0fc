// clipjot: watch the X11 clipboard and jot every capture down as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.veldt.dev/clipjot/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipjot",
		Short: "Clipboard history to JSON",
		Long: `clipjot watches the X11 clipboard selection and appends a record to a
JSON file every time the clipboard changes hands. HTML-capable owners are
captured as HTML, everything else as plain text.

Run "clipjot watch" to start the watcher. While it runs, "clipjot tail"
follows captures live over a local socket, and "clipjot copy" puts text on
the clipboard (handy for checking the pipeline end to end).

Config file search order (first found wins):
  /etc/clipjot/clipjot.toml
  $HOME/.config/clipjot/clipjot.toml
  path supplied via --config

All flags can be set via CLIPJOT_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newWatchCmd(),
		newCopyCmd(),
		newTailCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipjot %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(formatStr, levelStr string) {
	logging.Setup(logging.ParseFormat(formatStr), logging.ParseLevel(levelStr))
}
