package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.design/x/clipboard"
)

func newCopyCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "copy [text]",
		Short: "Put text on the clipboard (reads stdin if no argument)",
		Long: `Takes ownership of the clipboard selection and serves the given text.

On X11 the selection lives in the owning process, so the command keeps
serving it for --wait (or until another application takes ownership). That
is long enough for a running "clipjot watch" to capture the record.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				b, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(b)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to copy")
			}

			if err := clipboard.Init(); err != nil {
				return fmt.Errorf("clipboard unavailable: %w", err)
			}

			taken := clipboard.Write(clipboard.FmtText, []byte(text))
			select {
			case <-taken:
			case <-time.After(wait):
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 2*time.Second, "how long to keep serving the selection")
	return cmd
}
