package x11

import "errors"

// Sentinel errors for the selection protocol. Startup errors (connection,
// extension) are fatal to the caller; the rest abandon the current cycle.
var (
	// ErrConnection means the display server could not be reached.
	ErrConnection = errors.New("x11: cannot connect to display")

	// ErrExtensionUnavailable means the server lacks the XFixes extension,
	// so ownership-change notifications cannot be delivered. There is no
	// polling fallback.
	ErrExtensionUnavailable = errors.New("x11: xfixes extension unavailable")

	// ErrNoTargets means the selection owner refused the conversion or
	// offered nothing usable.
	ErrNoTargets = errors.New("x11: no targets available")

	// ErrIncrementalTransfer means the owner wants an INCR (chunked)
	// handoff, which this engine does not implement.
	ErrIncrementalTransfer = errors.New("x11: incremental transfer not supported")

	// ErrDecode means the transferred property could not be decoded.
	ErrDecode = errors.New("x11: property decode failed")
)
