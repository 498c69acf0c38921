package staticpub

import (
	"fmt"
	"time"

	"github.com/alnah/go-staticpub/internal/jsonutil"
)

// ActivityStreams vocabulary used across all emitted documents.
const (
	// ActivityStreamsContext is the JSON-LD context of every document.
	ActivityStreamsContext = "https://www.w3.org/ns/activitystreams"

	// SecurityContext accompanies the actor document.
	SecurityContext = "https://w3id.org/security/v1"

	// PublicAudience addresses a note to the world.
	PublicAudience = "https://www.w3.org/ns/activitystreams#Public"
)

// StandaloneNote is the self-describing projection of a Note: it carries
// the JSON-LD @context marker. Serves the per-note posts/ documents and
// the featured collection.
type StandaloneNote struct {
	note *Note
}

// EmbeddedNote is the projection of a Note embedded inside a Create
// activity, identical to StandaloneNote minus @context. The enclosing
// document supplies the context.
type EmbeddedNote struct {
	note *Note
}

// Standalone returns the note's self-describing projection.
func (n *Note) Standalone() StandaloneNote {
	return StandaloneNote{note: n}
}

// Embedded returns the note's embeddable projection.
func (n *Note) Embedded() EmbeddedNote {
	return EmbeddedNote{note: n}
}

// MarshalJSON emits the note with its @context marker.
func (v StandaloneNote) MarshalJSON() ([]byte, error) {
	return v.note.marshalFields(true)
}

// MarshalJSON emits the note without @context.
func (v EmbeddedNote) MarshalJSON() ([]byte, error) {
	return v.note.marshalFields(false)
}

// marshalFields builds the note document in its deterministic field
// order: @context (standalone only), id, to, sensitive, filename, the
// extra headers in file order, content, published.
func (n *Note) marshalFields(withContext bool) ([]byte, error) {
	fields := make([]jsonutil.Field, 0, len(n.Headers)+7)
	if withContext {
		fields = append(fields, jsonutil.Field{Key: "@context", Value: n.context})
	}
	fields = append(fields,
		jsonutil.Field{Key: "id", Value: n.ID},
		jsonutil.Field{Key: "to", Value: n.To},
		jsonutil.Field{Key: "sensitive", Value: n.Sensitive},
		jsonutil.Field{Key: "filename", Value: n.Filename},
	)
	for _, h := range n.Headers {
		fields = append(fields, jsonutil.Field{Key: h.Key, Value: h.Value})
	}
	fields = append(fields,
		jsonutil.Field{Key: "content", Value: n.Content},
		jsonutil.Field{Key: "published", Value: FormatTime(n.Published)},
	)
	return jsonutil.MarshalObject(fields)
}

// CreateActivity wraps one note for the outbox. Exactly one activity
// exists per note; its id and published timestamp equal the note's.
type CreateActivity struct {
	ID        string
	Actor     string
	Published time.Time
	To        []string
	Object    EmbeddedNote
}

// NewCreateActivity derives the Create activity announcing a note.
// The note must come from ParseNote: a note without its context marker
// breaks the projection invariant and reports ErrMissingContext.
func NewCreateActivity(actorID string, note *Note) (*CreateActivity, error) {
	if note.context == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingContext, note.ID)
	}

	published := note.Published
	if published.IsZero() {
		published = time.Now()
	}

	return &CreateActivity{
		ID:        note.ID,
		Actor:     actorID,
		Published: published,
		To:        []string{PublicAudience},
		Object:    note.Embedded(),
	}, nil
}

// MarshalJSON emits the activity as id, type, actor, published, to, object.
func (a *CreateActivity) MarshalJSON() ([]byte, error) {
	return jsonutil.MarshalObject([]jsonutil.Field{
		{Key: "id", Value: a.ID},
		{Key: "type", Value: "Create"},
		{Key: "actor", Value: a.Actor},
		{Key: "published", Value: FormatTime(a.Published)},
		{Key: "to", Value: a.To},
		{Key: "object", Value: a.Object},
	})
}
