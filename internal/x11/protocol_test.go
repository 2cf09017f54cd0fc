package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

const testProperty = xproto.Atom(99)

func TestNegotiateBuildsTargetSet(t *testing.T) {
	f := newFakeTransport()
	f.offerTargets(map[string]string{
		TargetUTF8: "hello",
		TargetHTML: "<b>hello</b>",
	})
	atoms := NewAtoms(f)
	sel := f.mustAtom(atomClipboard)

	ts, err := Negotiate(f, atoms, sel, testProperty)
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if len(ts) != 2 {
		t.Fatalf("got %d targets, want 2: %v", len(ts), ts)
	}
	for _, name := range []string{TargetUTF8, TargetHTML} {
		if _, ok := ts[name]; !ok {
			t.Errorf("target %q missing from set", name)
		}
	}
	if f.deletes == 0 {
		t.Error("transfer property was not cleared before the request")
	}
}

func TestNegotiateRefused(t *testing.T) {
	f := newFakeTransport() // nil onConvert answers with Property=None
	atoms := NewAtoms(f)
	sel := f.mustAtom(atomClipboard)

	_, err := Negotiate(f, atoms, sel, testProperty)
	if !errors.Is(err, ErrNoTargets) {
		t.Fatalf("got %v, want ErrNoTargets", err)
	}
}

func TestTargetSetPick(t *testing.T) {
	tests := []struct {
		name     string
		targets  []string
		wantName string
		wantOK   bool
	}{
		{"html wins over utf8", []string{TargetUTF8, TargetHTML}, TargetHTML, true},
		{"utf8 wins over text", []string{TargetText, TargetUTF8}, TargetUTF8, true},
		{"text alone", []string{TargetText}, TargetText, true},
		{"nothing usable", []string{"image/png"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := make(TargetSet)
			for i, name := range tt.targets {
				ts[name] = xproto.Atom(200 + i)
			}
			name, _, ok := ts.Pick(targetPriority...)
			if ok != tt.wantOK || name != tt.wantName {
				t.Fatalf("Pick = %q, %v; want %q, %v", name, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}

func TestFetchIncrementalRefused(t *testing.T) {
	f := newFakeTransport()
	atoms := NewAtoms(f)
	sel := f.mustAtom(atomClipboard)
	target := f.mustAtom(TargetUTF8)
	incr := f.mustAtom(atomIncr)

	// Owner announces an INCR handoff: the probe sees the chunking marker
	// type and a size of zero.
	f.onConvert = func(selection, target, property xproto.Atom) {
		f.props[property] = fakeProp{typ: incr, data: nil}
		f.pushEvent(ConversionDone{Selection: selection, Target: target, Property: property})
	}

	_, err := Fetch(f, atoms, sel, target, testProperty)
	if !errors.Is(err, ErrIncrementalTransfer) {
		t.Fatalf("got %v, want ErrIncrementalTransfer", err)
	}
	if f.fullReads != 0 {
		t.Errorf("full read happened %d times during a refused INCR transfer", f.fullReads)
	}
}

func TestFetchDecodesText(t *testing.T) {
	f := newFakeTransport()
	f.offerTargets(map[string]string{TargetUTF8: "hello world"})
	atoms := NewAtoms(f)
	sel := f.mustAtom(atomClipboard)

	text, err := Fetch(f, atoms, sel, f.mustAtom(TargetUTF8), testProperty)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("got %q, want %q", text, "hello world")
	}
}

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		want    string
		wantErr bool
	}{
		{"plain", []byte("abc"), "abc", false},
		{"nul terminated", []byte("abc\x00garbage"), "abc", false},
		{"empty", nil, "", false},
		{"invalid utf8", []byte{0xff, 0xfe}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeText(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("got %v, want ErrDecode", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeText: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAtomsCached(t *testing.T) {
	f := newFakeTransport()
	atoms := NewAtoms(f)

	a1, err := atoms.Get("UTF8_STRING")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	before := f.interns
	a2, err := atoms.Get("UTF8_STRING")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a1 != a2 {
		t.Fatalf("interning not deterministic: %d vs %d", a1, a2)
	}
	if f.interns != before {
		t.Errorf("cached atom hit the transport again")
	}
}
