// Package record defines the clipboard records the watcher emits.
//
// A record is a tagged union of the two text-like shapes the engine
// captures: rendered HTML and plain unicode text. Records are immutable
// once built — constructors stamp the ID and timestamp.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Type discriminates the record union.
type Type string

const (
	TypeHTML Type = "html"
	TypeText Type = "text"
)

// Record is one captured clipboard entry.
type Record struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Content string `json:"content"`

	// Owner is the title of the window owning the selection at capture
	// time, or "unknown" when the lookup failed.
	Owner string `json:"owner,omitempty"`

	// SourceURL carries the document URL for HTML captures where the
	// platform reports one (Windows CF_HTML does; X11 does not).
	SourceURL string `json:"source_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewHTML builds an HTML record. sourceURL may be empty.
func NewHTML(content, owner, sourceURL string) Record {
	return Record{
		ID:        uuid.NewString(),
		Type:      TypeHTML,
		Content:   content,
		Owner:     owner,
		SourceURL: sourceURL,
		CreatedAt: time.Now(),
	}
}

// NewText builds a plain-text record.
func NewText(content, owner string) Record {
	return Record{
		ID:        uuid.NewString(),
		Type:      TypeText,
		Content:   content,
		Owner:     owner,
		CreatedAt: time.Now(),
	}
}
