package x11

import "github.com/BurntSushi/xgb/xproto"

// Well-known atom names used by the protocol engine. The vocabulary is
// small and fixed, so the registry never evicts.
const (
	atomClipboard = "CLIPBOARD"
	atomTargets   = "TARGETS"
	atomIncr      = "INCR"

	// Text-capable targets in priority order; see targetPriority.
	TargetHTML = "text/html"
	TargetUTF8 = "UTF8_STRING"
	TargetText = "TEXT"
)

// Atoms caches name→atom interning for one connection session. Atom values
// are only stable within that session, so the registry is created alongside
// the connection and discarded with it.
type Atoms struct {
	tr     Transport
	byName map[string]xproto.Atom
}

// NewAtoms returns an empty registry backed by tr.
func NewAtoms(tr Transport) *Atoms {
	return &Atoms{tr: tr, byName: make(map[string]xproto.Atom)}
}

// Get interns name, consulting the cache first. Interning is deterministic
// per name per session; callers treat a failure as fatal since the protocol
// cannot proceed without identifiers.
func (a *Atoms) Get(name string) (xproto.Atom, error) {
	if atom, ok := a.byName[name]; ok {
		return atom, nil
	}
	atom, err := a.tr.InternAtom(name)
	if err != nil {
		return 0, err
	}
	a.byName[name] = atom
	return atom, nil
}
