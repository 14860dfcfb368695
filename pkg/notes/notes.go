// Package notes stores the documents that diagrams are embedded in.
//
// A note is an editor document: a title plus the editor's JSON content,
// kept opaque here. Diagram blocks live inside that content; this package
// never looks at them.
//
// Identifiers are supplied by the caller (the editor creates them), so
// Create fails with [ErrExists] instead of generating one. Update is a
// partial merge: only the fields set in a [Patch] change.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: one JSON file per note, for the CLI
//   - [RedisStore]: shared across server instances
//   - [MongoStore]: durable document storage
package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	nderrors "github.com/matzehuels/notediagram/pkg/errors"
)

// Sentinel errors for note operations.
var (
	// ErrNotFound is returned when a note does not exist.
	ErrNotFound = errors.New("note not found")

	// ErrExists is returned by Create when the ID is taken.
	ErrExists = errors.New("note already exists")
)

// Note is one stored document.
type Note struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title   *string         `json:"title,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool { return p.Title == nil && len(p.Content) == 0 }

// Store is the interface for note storage backends.
type Store interface {
	// Get returns the note with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Note, error)

	// List returns every note, newest first.
	List(ctx context.Context) ([]*Note, error)

	// Create stores a new note. CreatedAt and UpdatedAt are set by the
	// store. It returns ErrExists when the ID is taken.
	Create(ctx context.Context, n *Note) (*Note, error)

	// Update merges p into the stored note and bumps UpdatedAt.
	Update(ctx context.Context, id string, p Patch) (*Note, error)

	// Delete removes a note. It returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// prepare validates n and returns a stored copy stamped with now.
func prepare(n *Note, now time.Time) (*Note, error) {
	if n == nil {
		return nil, nderrors.New(nderrors.ErrCodeInvalidInput, "note is required")
	}
	if err := nderrors.ValidateNoteID(n.ID); err != nil {
		return nil, err
	}
	content, err := compactContent(n.Content)
	if err != nil {
		return nil, err
	}
	out := n.clone()
	out.Content = content
	out.CreatedAt = now.UTC()
	out.UpdatedAt = out.CreatedAt
	return out, nil
}

// apply merges p into n and stamps UpdatedAt.
func (n *Note) apply(p Patch, now time.Time) error {
	content, err := compactContent(p.Content)
	if err != nil {
		return err
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if len(content) > 0 {
		n.Content = content
	}
	n.UpdatedAt = now.UTC()
	return nil
}

// compactContent validates raw and strips insignificant whitespace, so every
// backend hands back the same bytes regardless of how it serializes notes.
func compactContent(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, nderrors.New(nderrors.ErrCodeInvalidInput, "note content is not valid JSON")
	}
	return buf.Bytes(), nil
}

func (n *Note) clone() *Note {
	c := *n
	c.Content = slices.Clone(n.Content)
	return &c
}

// sortNewest orders notes by creation time, newest first, with ID as the
// tie breaker so listings are stable.
func sortNewest(ns []*Note) {
	slices.SortFunc(ns, func(a, b *Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
