package x11

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
)

// Fetch converts the selection to the chosen target and decodes the
// resulting property as text. The target atom must come from a TargetSet
// negotiated in this session.
//
// Before the full read the probe's type is compared against INCR: an owner
// announcing an incremental handoff wants a delete/refill cycle this engine
// deliberately does not implement, so the transfer fails instead of reading
// a partial payload.
func Fetch(tr Transport, atoms *Atoms, selection, target, property xproto.Atom) (string, error) {
	incr, err := atoms.Get(atomIncr)
	if err != nil {
		return "", err
	}

	if err := tr.DeleteProperty(property); err != nil {
		return "", fmt.Errorf("clearing transfer property: %w", err)
	}
	if err := tr.ConvertSelection(selection, target, property); err != nil {
		return "", fmt.Errorf("requesting conversion: %w", err)
	}

	done, err := awaitConversion(tr, selection)
	if err != nil {
		return "", err
	}
	if done.Property == xproto.AtomNone {
		return "", fmt.Errorf("%w: owner refused conversion", ErrNoTargets)
	}

	info, err := tr.Probe(property)
	if err != nil {
		return "", err
	}
	if info.Type == incr {
		return "", ErrIncrementalTransfer
	}

	raw, err := tr.ReadExact(property, TypeAny, info.BytesLeft)
	if err != nil {
		return "", err
	}
	return decodeText(raw)
}

// decodeText interprets raw as a NUL-terminated text buffer.
func decodeText(raw []byte) (string, error) {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrDecode)
	}
	return string(raw), nil
}
