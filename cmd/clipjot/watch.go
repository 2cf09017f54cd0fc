package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.veldt.dev/clipjot/internal/ipc"
	"go.veldt.dev/clipjot/internal/sink"
	"go.veldt.dev/clipjot/internal/tap"
	"go.veldt.dev/clipjot/internal/x11"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the clipboard and append captures to a JSON file",
		Long: `Connects to the X server, subscribes to clipboard ownership changes via
the XFixes extension, and appends one record per capture to the output file.

While running, captures are also streamed to any "clipjot tail" clients over
a local socket (disable with --no-tap).`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runWatch(v) },
	}

	f := cmd.Flags()
	f.String("output", "clipboard.json", "file the capture history is written to")
	f.Bool("no-tap", false, "do not serve captures on the local tap socket")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runWatch(v *viper.Viper) error {
	setupLogging(v)

	output := v.GetString("output")
	noTap := v.GetBool("no-tap")

	slog.Info("clipjot watch starting",
		"version", Version,
		"output", output,
		"tap", !noTap,
	)

	handle, err := x11.Open()
	if err != nil {
		return err
	}
	// Teardown must run on every exit path: the transfer property and proxy
	// window are server-side resources.
	defer handle.Close()

	sinks := sink.Multi{sink.NewJSONFile(output)}

	if !noTap {
		ln, err := ipc.Listen()
		if err != nil {
			slog.Warn("tap socket unavailable", "err", err)
		} else {
			srv := tap.Serve(ln)
			defer srv.Close()
			sinks = append(sinks, srv)
			slog.Info("tap socket listening", "path", ipc.SocketPath())
		}
	}

	w, err := x11.NewWatcher(handle, handle.TransferProperty(), sinks)
	if err != nil {
		return err
	}

	// Closing the handle is the only way to unblock the event loop; the
	// protocol has no cancellation. The deferred Close above is then a no-op.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		slog.Info("shutting down", "signal", s)
		handle.Close()
	}()

	err = w.Run()
	if handle.Closed() {
		return nil
	}
	return err
}
