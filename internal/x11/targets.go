package x11

import (
	"encoding/binary"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// TargetSet maps target names to their atoms for one negotiation. Built
// fresh per ownership change and discarded after use.
type TargetSet map[string]xproto.Atom

// Pick returns the first name from priority present in the set.
func (ts TargetSet) Pick(priority ...string) (string, xproto.Atom, bool) {
	for _, name := range priority {
		if atom, ok := ts[name]; ok {
			return name, atom, true
		}
	}
	return "", 0, false
}

// Negotiate asks the current owner of selection which conversions it
// supports, by converting the selection to the TARGETS pseudo-target and
// decoding the resulting property as an atom array.
//
// The transfer property is cleared before the request; stale payloads from
// an earlier cycle must not be mistaken for the answer.
func Negotiate(tr Transport, atoms *Atoms, selection, property xproto.Atom) (TargetSet, error) {
	targets, err := atoms.Get(atomTargets)
	if err != nil {
		return nil, err
	}

	if err := tr.DeleteProperty(property); err != nil {
		return nil, fmt.Errorf("clearing transfer property: %w", err)
	}
	if err := tr.ConvertSelection(selection, targets, property); err != nil {
		return nil, fmt.Errorf("requesting targets: %w", err)
	}

	done, err := awaitConversion(tr, selection)
	if err != nil {
		return nil, err
	}
	if done.Property == xproto.AtomNone {
		return nil, fmt.Errorf("%w: owner refused TARGETS conversion", ErrNoTargets)
	}

	// Two-phase read: probe for the byte count, then read exactly that.
	info, err := tr.Probe(property)
	if err != nil {
		return nil, err
	}
	raw, err := tr.ReadExact(property, xproto.AtomAtom, info.BytesLeft)
	if err != nil {
		return nil, err
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: atom array length %d", ErrDecode, len(raw))
	}

	ts := make(TargetSet, len(raw)/4)
	for i := 0; i < len(raw); i += 4 {
		atom := xproto.Atom(binary.LittleEndian.Uint32(raw[i:]))
		name, err := tr.AtomName(atom)
		if err != nil {
			return nil, fmt.Errorf("%w: resolving target atom %d: %v", ErrDecode, atom, err)
		}
		ts[name] = atom
	}
	return ts, nil
}

// awaitConversion blocks until the conversion answer for selection arrives.
// Other events (including further ownership changes) are dropped, as the
// engine services exactly one request at a time.
func awaitConversion(tr Transport, selection xproto.Atom) (ConversionDone, error) {
	for {
		ev, err := tr.WaitEvent()
		if err != nil {
			return ConversionDone{}, err
		}
		if done, ok := ev.(ConversionDone); ok && done.Selection == selection {
			return done, nil
		}
	}
}
