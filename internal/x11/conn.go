// Package x11 implements the selection-acquisition side of the X11
// clipboard protocol: target negotiation, property-based payload transfer,
// and an event loop driven by XFixes ownership-change notifications.
//
// The package talks to the server through the pure-Go xgb bindings and never
// owns the selection itself — it is strictly a requestor. Large (INCR)
// transfers are detected and refused, not completed.
package x11

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
)

// transferProperty is the window property the owner writes converted
// selections into. The name is arbitrary but conventional.
const transferProperty = "CLIPJOT_SEL"

// Conn owns the connection to the display server and the invisible 1×1
// proxy window that acts as requestor and property holder. It implements
// Transport.
type Conn struct {
	x        *xgb.Conn
	window   xproto.Window
	property xproto.Atom

	closeOnce sync.Once
	closed    atomic.Bool
	teardown  func()
}

// Open connects to the display named by $DISPLAY, creates the proxy window,
// and confirms the XFixes extension is usable. The returned handle must be
// closed on every exit path.
func Open() (*Conn, error) {
	x, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	c := &Conn{x: x}
	if err := c.setup(); err != nil {
		x.Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) setup() error {
	screen := xproto.Setup(c.x).DefaultScreen(c.x)

	wid, err := xproto.NewWindowId(c.x)
	if err != nil {
		return fmt.Errorf("%w: allocating window id: %v", ErrConnection, err)
	}
	// 1×1, off-screen, never mapped: the window exists only to receive
	// SelectionNotify events and hold the transfer property.
	err = xproto.CreateWindowChecked(c.x, screen.RootDepth, wid, screen.Root,
		-10, -10, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return fmt.Errorf("%w: creating proxy window: %v", ErrConnection, err)
	}
	c.window = wid

	prop, err := c.InternAtom(transferProperty)
	if err != nil {
		return fmt.Errorf("%w: interning transfer property: %v", ErrConnection, err)
	}
	c.property = prop

	// Ownership-change notification is the only trigger this engine has;
	// without XFixes there is nothing to watch.
	if err := xfixes.Init(c.x); err != nil {
		return fmt.Errorf("%w: %v", ErrExtensionUnavailable, err)
	}
	if _, err := xfixes.QueryVersion(c.x, 5, 0).Reply(); err != nil {
		return fmt.Errorf("%w: %v", ErrExtensionUnavailable, err)
	}

	c.teardown = c.serverTeardown
	return nil
}

// Window returns the proxy window identifier.
func (c *Conn) Window() xproto.Window { return c.window }

// TransferProperty returns the reserved property used for selection payloads.
func (c *Conn) TransferProperty() xproto.Atom { return c.property }

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool { return c.closed.Load() }

// Close tears the connection down: transfer property deleted, proxy window
// destroyed, connection closed. Idempotent; safe to call from a signal
// handler while the event loop is blocked in WaitEvent, and a no-op the
// second time either path reaches it.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.teardown != nil {
			c.teardown()
		}
	})
}

func (c *Conn) serverTeardown() {
	if err := xproto.DeletePropertyChecked(c.x, c.window, c.property).Check(); err != nil {
		slog.Debug("deleting transfer property failed", "err", err)
	}
	if err := xproto.DestroyWindowChecked(c.x, c.window).Check(); err != nil {
		slog.Debug("destroying proxy window failed", "err", err)
	}
	c.x.Close()
}

// InternAtom implements Transport.
func (c *Conn) InternAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.x, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("interning %q: %w", name, err)
	}
	return reply.Atom, nil
}

// AtomName implements Transport.
func (c *Conn) AtomName(atom xproto.Atom) (string, error) {
	reply, err := xproto.GetAtomName(c.x, atom).Reply()
	if err != nil {
		return "", fmt.Errorf("resolving atom %d: %w", atom, err)
	}
	return string(reply.Name), nil
}

// ConvertSelection implements Transport.
func (c *Conn) ConvertSelection(selection, target, property xproto.Atom) error {
	return xproto.ConvertSelectionChecked(c.x, c.window, selection, target,
		property, xproto.TimeCurrentTime).Check()
}

// Probe implements Transport: a zero-length read that reports the property's
// declared type and total byte count without moving the payload.
func (c *Conn) Probe(property xproto.Atom) (PropInfo, error) {
	reply, err := xproto.GetProperty(c.x, false, c.window, property,
		TypeAny, 0, 0).Reply()
	if err != nil {
		return PropInfo{}, fmt.Errorf("property probe: %w", err)
	}
	return PropInfo{Type: reply.Type, BytesLeft: reply.BytesAfter}, nil
}

// ReadExact implements Transport: a full read sized exactly to a preceding
// probe. GetProperty counts in 32-bit units, so the length is rounded up.
func (c *Conn) ReadExact(property, typ xproto.Atom, size uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.x, false, c.window, property,
		typ, 0, (size+3)/4).Reply()
	if err != nil {
		return nil, fmt.Errorf("property read: %w", err)
	}
	return reply.Value, nil
}

// DeleteProperty implements Transport.
func (c *Conn) DeleteProperty(property xproto.Atom) error {
	return xproto.DeletePropertyChecked(c.x, c.window, property).Check()
}

// SelectionOwner implements Transport.
func (c *Conn) SelectionOwner(selection xproto.Atom) (xproto.Window, error) {
	reply, err := xproto.GetSelectionOwner(c.x, selection).Reply()
	if err != nil {
		return 0, fmt.Errorf("selection owner: %w", err)
	}
	return reply.Owner, nil
}

// WindowTitle implements Transport. WM_NAME first (what XFetchName reads),
// then the EWMH _NET_WM_NAME many modern clients set instead.
func (c *Conn) WindowTitle(w xproto.Window) (string, error) {
	reply, err := xproto.GetProperty(c.x, false, w, xproto.AtomWmName,
		TypeAny, 0, 64).Reply()
	if err == nil && len(reply.Value) > 0 {
		return string(reply.Value), nil
	}

	netName, err := c.InternAtom("_NET_WM_NAME")
	if err != nil {
		return "", err
	}
	reply, err = xproto.GetProperty(c.x, false, w, netName, TypeAny, 0, 64).Reply()
	if err != nil {
		return "", fmt.Errorf("window title: %w", err)
	}
	return string(reply.Value), nil
}

// SubscribeOwnerChanges implements Transport using the XFixes
// SetSelectionOwner notification mask.
func (c *Conn) SubscribeOwnerChanges(selection xproto.Atom) error {
	err := xfixes.SelectSelectionInputChecked(c.x, c.window, selection,
		xfixes.SelectionEventMaskSetSelectionOwner).Check()
	if err != nil {
		return fmt.Errorf("%w: selecting selection input: %v", ErrExtensionUnavailable, err)
	}
	return nil
}

// WaitEvent implements Transport. Unrecognised events are skipped; X errors
// from unchecked requests are logged and skipped. Returns an error once the
// connection shuts down, which is the loop's only exit.
func (c *Conn) WaitEvent() (Event, error) {
	for {
		ev, xerr := c.x.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, fmt.Errorf("%w: connection closed", ErrConnection)
		}
		if xerr != nil {
			slog.Debug("x11 protocol error", "err", xerr)
			continue
		}
		switch e := ev.(type) {
		case xfixes.SelectionNotifyEvent:
			return OwnerChanged{Selection: e.Selection, Owner: e.Owner}, nil
		case xproto.SelectionNotifyEvent:
			return ConversionDone{
				Selection: e.Selection,
				Target:    e.Target,
				Property:  e.Property,
			}, nil
		default:
			// PropertyNotify from our own event mask, mostly.
			continue
		}
	}
}
