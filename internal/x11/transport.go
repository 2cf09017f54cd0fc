package x11

import "github.com/BurntSushi/xgb/xproto"

// Transport is the narrow capability surface the protocol engine needs from
// the display server. *Conn implements it against a live X connection; tests
// substitute a scripted fake. Every call is a blocking round-trip with no
// timeout — an unresponsive selection owner stalls the cycle, which is the
// behavior of the underlying push-based protocol.
type Transport interface {
	// InternAtom resolves a name to an atom, creating it if necessary.
	InternAtom(name string) (xproto.Atom, error)

	// AtomName resolves an atom back to its name.
	AtomName(atom xproto.Atom) (string, error)

	// ConvertSelection asks the current owner of selection to render it as
	// target into the given property on the proxy window. The answer
	// arrives later as a ConversionDone event.
	ConvertSelection(selection, target, property xproto.Atom) error

	// Probe reads zero bytes of property to learn its type and total size
	// without transferring the payload.
	Probe(property xproto.Atom) (PropInfo, error)

	// ReadExact reads exactly size bytes of property, validated against the
	// expected type (TypeAny to accept anything).
	ReadExact(property, typ xproto.Atom, size uint32) ([]byte, error)

	// DeleteProperty removes property from the proxy window.
	DeleteProperty(property xproto.Atom) error

	// WaitEvent blocks until the next protocol event of interest. It
	// returns an error once the connection is closed.
	WaitEvent() (Event, error)

	// SelectionOwner returns the window currently owning selection, or 0.
	SelectionOwner(selection xproto.Atom) (xproto.Window, error)

	// WindowTitle returns the title of a window, best effort.
	WindowTitle(w xproto.Window) (string, error)

	// SubscribeOwnerChanges arranges for OwnerChanged events whenever
	// selection changes hands.
	SubscribeOwnerChanges(selection xproto.Atom) error
}

// TypeAny matches any property type in Probe/ReadExact.
const TypeAny = xproto.Atom(xproto.GetPropertyTypeAny)

// PropInfo is the result of a zero-length property probe: the declared type
// and the number of bytes a full read would return.
type PropInfo struct {
	Type      xproto.Atom
	BytesLeft uint32
}

// Event is a protocol event delivered by Transport.WaitEvent.
type Event interface {
	isEvent()
}

// OwnerChanged reports that ownership of a selection changed.
type OwnerChanged struct {
	Selection xproto.Atom
	Owner     xproto.Window
}

// ConversionDone answers a previous ConvertSelection. Property is None when
// the owner could not perform the conversion.
type ConversionDone struct {
	Selection xproto.Atom
	Target    xproto.Atom
	Property  xproto.Atom
}

func (OwnerChanged) isEvent()   {}
func (ConversionDone) isEvent() {}
