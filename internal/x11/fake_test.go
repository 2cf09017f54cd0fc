package x11

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// errDrained signals the end of a scripted event sequence; the watcher's
// Run loop exits with it the way a closed connection would.
var errDrained = errors.New("fake: event queue drained")

type fakeProp struct {
	typ  xproto.Atom
	data []byte
}

// fakeTransport is a scripted Transport. Conversion requests are answered
// by onConvert, which plays the selection owner: it populates properties
// and queues ConversionDone events.
type fakeTransport struct {
	nextAtom xproto.Atom
	atoms    map[string]xproto.Atom
	names    map[xproto.Atom]string

	events []Event
	props  map[xproto.Atom]fakeProp

	onConvert func(selection, target, property xproto.Atom)

	interns    int
	deletes    int
	fullReads  int
	subscribed []xproto.Atom

	owner xproto.Window
	title string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		nextAtom: 100, // clear of the predefined atoms
		atoms:    make(map[string]xproto.Atom),
		names:    make(map[xproto.Atom]string),
		props:    make(map[xproto.Atom]fakeProp),
	}
}

func (f *fakeTransport) InternAtom(name string) (xproto.Atom, error) {
	f.interns++
	if a, ok := f.atoms[name]; ok {
		return a, nil
	}
	a := f.nextAtom
	f.nextAtom++
	f.atoms[name] = a
	f.names[a] = name
	return a, nil
}

func (f *fakeTransport) AtomName(atom xproto.Atom) (string, error) {
	name, ok := f.names[atom]
	if !ok {
		return "", fmt.Errorf("fake: unknown atom %d", atom)
	}
	return name, nil
}

func (f *fakeTransport) ConvertSelection(selection, target, property xproto.Atom) error {
	if f.onConvert == nil {
		f.pushEvent(ConversionDone{Selection: selection, Target: target, Property: xproto.AtomNone})
		return nil
	}
	f.onConvert(selection, target, property)
	return nil
}

func (f *fakeTransport) Probe(property xproto.Atom) (PropInfo, error) {
	p := f.props[property]
	return PropInfo{Type: p.typ, BytesLeft: uint32(len(p.data))}, nil
}

func (f *fakeTransport) ReadExact(property, typ xproto.Atom, size uint32) ([]byte, error) {
	f.fullReads++
	p := f.props[property]
	if int(size) < len(p.data) {
		return p.data[:size], nil
	}
	return p.data, nil
}

func (f *fakeTransport) DeleteProperty(property xproto.Atom) error {
	f.deletes++
	delete(f.props, property)
	return nil
}

func (f *fakeTransport) WaitEvent() (Event, error) {
	if len(f.events) == 0 {
		return nil, errDrained
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeTransport) SelectionOwner(xproto.Atom) (xproto.Window, error) {
	return f.owner, nil
}

func (f *fakeTransport) WindowTitle(xproto.Window) (string, error) {
	return f.title, nil
}

func (f *fakeTransport) SubscribeOwnerChanges(selection xproto.Atom) error {
	f.subscribed = append(f.subscribed, selection)
	return nil
}

func (f *fakeTransport) pushEvent(ev Event) { f.events = append(f.events, ev) }

// mustAtom interns name without the error plumbing; fake interning cannot fail.
func (f *fakeTransport) mustAtom(name string) xproto.Atom {
	a, _ := f.InternAtom(name)
	return a
}

// encodeAtoms packs atoms as the 32-bit little-endian array a TARGETS
// property carries on the wire.
func encodeAtoms(atoms []xproto.Atom) []byte {
	out := make([]byte, 4*len(atoms))
	for i, a := range atoms {
		binary.LittleEndian.PutUint32(out[4*i:], uint32(a))
	}
	return out
}

// offerTargets scripts an owner that announces the given targets and serves
// each one's payload on request.
func (f *fakeTransport) offerTargets(payloads map[string]string) {
	f.onConvert = func(selection, target, property xproto.Atom) {
		if target == f.mustAtom(atomTargets) {
			var offered []xproto.Atom
			for name := range payloads {
				offered = append(offered, f.mustAtom(name))
			}
			f.props[property] = fakeProp{typ: xproto.AtomAtom, data: encodeAtoms(offered)}
			f.pushEvent(ConversionDone{Selection: selection, Target: target, Property: property})
			return
		}
		name := f.names[target]
		payload, ok := payloads[name]
		if !ok {
			f.pushEvent(ConversionDone{Selection: selection, Target: target, Property: xproto.AtomNone})
			return
		}
		f.props[property] = fakeProp{typ: target, data: append([]byte(payload), 0)}
		f.pushEvent(ConversionDone{Selection: selection, Target: target, Property: property})
	}
}
