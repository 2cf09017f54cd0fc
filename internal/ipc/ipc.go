// Package ipc owns the local Unix-socket channel the watcher uses to stream
// captured records to CLI tools ("clipjot tail"). The socket carries plain
// newline-delimited JSON; it is local and owner-restricted by the OS, so no
// auth or encryption is layered on top.
package ipc

import (
	"net"
	"os"
	"path/filepath"
)

// SocketPath returns the tap socket path: $CLIPJOT_SOCKET if set, otherwise
// $TMPDIR/clipjot.sock.
func SocketPath() string {
	if s := os.Getenv("CLIPJOT_SOCKET"); s != "" {
		return s
	}
	return filepath.Join(os.TempDir(), "clipjot.sock")
}

// IsRunning reports whether a watcher appears to be listening on the tap
// socket. A cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.Dial("unix", SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a net.Listener on the socket path, removing any stale
// socket left by a previous (crashed) run.
func Listen() (net.Listener, error) {
	path := SocketPath()
	_ = os.Remove(path)
	return net.Listen("unix", path)
}
