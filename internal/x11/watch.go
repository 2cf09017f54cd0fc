package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"

	"go.veldt.dev/clipjot/internal/record"
	"go.veldt.dev/clipjot/internal/sink"
)

// unknownOwner is used when the owner's title cannot be determined. The
// owner field degrades rather than aborting the record.
const unknownOwner = "unknown"

// targetPriority is the fixed target selection policy, first match wins.
var targetPriority = []string{TargetHTML, TargetUTF8, TargetText}

type state int

const (
	stateIdle state = iota
	stateNegotiating
	stateTransferring
	stateEmitting
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateNegotiating:
		return "negotiating"
	case stateTransferring:
		return "transferring"
	case stateEmitting:
		return "emitting"
	}
	return "unknown"
}

// Watcher drives the full acquisition cycle: on each ownership-change
// notification it negotiates targets, transfers the selection, looks up the
// owner's title, and forwards one record to the sink.
//
// The watcher is single-threaded and fully sequential; exactly one
// negotiation or transfer is ever in flight.
type Watcher struct {
	tr        Transport
	atoms     *Atoms
	sink      sink.Sink
	selection xproto.Atom
	property  xproto.Atom
	state     state
}

// NewWatcher subscribes to ownership changes of the CLIPBOARD selection and
// returns a watcher that emits records to snk. Subscription failure is
// fatal: without change notifications there is nothing to drive the loop.
func NewWatcher(tr Transport, property xproto.Atom, snk sink.Sink) (*Watcher, error) {
	atoms := NewAtoms(tr)
	selection, err := atoms.Get(atomClipboard)
	if err != nil {
		return nil, err
	}
	if err := tr.SubscribeOwnerChanges(selection); err != nil {
		return nil, err
	}
	return &Watcher{
		tr:        tr,
		atoms:     atoms,
		sink:      snk,
		selection: selection,
		property:  property,
	}, nil
}

// Run blocks on the event loop until the transport fails, normally because
// the connection was closed. Steady-state failures are isolated to the
// triggering notification; the next ownership change is the natural retry.
func (w *Watcher) Run() error {
	for {
		ev, err := w.tr.WaitEvent()
		if err != nil {
			return err
		}
		change, ok := ev.(OwnerChanged)
		if !ok || change.Selection != w.selection {
			continue
		}
		w.handleChange(change)
	}
}

// handleChange runs one Idle→Negotiating→Transferring→Emitting→Idle cycle.
// At most one record is emitted per notification.
func (w *Watcher) handleChange(change OwnerChanged) {
	defer w.setState(stateIdle)

	w.setState(stateNegotiating)
	targets, err := Negotiate(w.tr, w.atoms, w.selection, w.property)
	if err != nil {
		slog.Debug("target negotiation failed", "err", err)
		return
	}

	name, target, ok := targets.Pick(targetPriority...)
	if !ok {
		slog.Debug("no text-capable target offered", "targets", len(targets))
		return
	}

	w.setState(stateTransferring)
	text, err := Fetch(w.tr, w.atoms, w.selection, target, w.property)
	if err != nil {
		slog.Warn("selection transfer failed", "target", name, "err", err)
		return
	}

	w.setState(stateEmitting)
	owner := w.ownerTitle()

	var rec record.Record
	if name == TargetHTML {
		// SourceURL exists for parity with the Windows engine's CF_HTML
		// metadata; X11 owners do not report one.
		rec = record.NewHTML(text, owner, "")
	} else {
		rec = record.NewText(text, owner)
	}

	slog.Info("clipboard captured",
		"type", rec.Type,
		"target", name,
		"owner", owner,
		"bytes", len(text),
	)
	if err := w.sink.Write(rec); err != nil {
		slog.Error("sink write failed", "err", err)
	}
}

func (w *Watcher) setState(s state) {
	if w.state != s {
		slog.Debug("watcher state", "from", w.state, "to", s)
	}
	w.state = s
}

// ownerTitle looks up the current owner's window title, best effort.
func (w *Watcher) ownerTitle() string {
	owner, err := w.tr.SelectionOwner(w.selection)
	if err != nil || owner == 0 {
		return unknownOwner
	}
	title, err := w.tr.WindowTitle(owner)
	if err != nil || title == "" {
		return unknownOwner
	}
	return title
}
