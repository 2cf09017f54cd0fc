package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"go.veldt.dev/clipjot/internal/ipc"
	"go.veldt.dev/clipjot/internal/record"
)

func newTailCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow clipboard captures from a running watcher",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !ipc.IsRunning() {
				return fmt.Errorf("no watcher listening on %s (start \"clipjot watch\")", ipc.SocketPath())
			}
			conn, err := net.Dial("unix", ipc.SocketPath())
			if err != nil {
				return fmt.Errorf("dialing tap socket: %w", err)
			}
			defer conn.Close()

			sc := bufio.NewScanner(conn)
			sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
			for sc.Scan() {
				if raw {
					fmt.Println(sc.Text())
					continue
				}
				var rec record.Record
				if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
					fmt.Fprintf(os.Stderr, "skipping malformed record: %v\n", err)
					continue
				}
				fmt.Printf("%s  [%s]  %-20s  %s\n",
					rec.CreatedAt.Format("15:04:05"),
					rec.Type,
					rec.Owner,
					oneLine(rec.Content, 80),
				)
			}
			return sc.Err()
		},
	}

	cmd.Flags().BoolVar(&raw, "json", false, "print raw JSON records")
	return cmd
}

// oneLine flattens s to a single line truncated to max runes.
func oneLine(s string, max int) string {
	out := make([]rune, 0, max)
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
		if len(out) == max {
			return string(out) + "…"
		}
	}
	return string(out)
}
