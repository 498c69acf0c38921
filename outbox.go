package staticpub

import (
	"sort"

	"github.com/alnah/go-staticpub/internal/jsonutil"
)

// OutboxPage is the single OrderedCollectionPage holding the retained
// Create activities, newest first. Mastodon fetches this page directly,
// so it is emitted as {domain}/toots with prev and partOf pointing at
// itself.
type OutboxPage struct {
	ID           string
	Prev         string
	PartOf       string
	TotalItems   int
	OrderedItems []*CreateActivity
}

// OutboxCollection is the OrderedCollection entry point referencing the
// page as its first and only member.
type OutboxCollection struct {
	ID         string
	TotalItems int
	First      string
}

// AssembleOutbox orders notes newest-first, truncates to the configured
// page size, derives one Create activity per surviving note, and wraps
// them into the page and collection documents.
//
// The sort is stable: notes published in the same second keep their
// input order. With paginate_by > 0 only the most recent N survive and
// both documents advertise the retained count; older notes are omitted,
// not paged. An empty note set assembles a valid empty page.
func AssembleOutbox(cfg *Config, notes []*Note) (*OutboxPage, *OutboxCollection, error) {
	sorted := make([]*Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.After(sorted[j].Published)
	})

	if n := cfg.Outbox.PaginateBy; n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	activities := make([]*CreateActivity, 0, len(sorted))
	for _, note := range sorted {
		activity, err := NewCreateActivity(cfg.Instance.ActorID, note)
		if err != nil {
			return nil, nil, err
		}
		activities = append(activities, activity)
	}

	domain := cfg.Instance.Domain
	page := &OutboxPage{
		ID:           domain + "/toots",
		Prev:         domain + "/toots",
		PartOf:       domain + "/toots",
		TotalItems:   len(activities),
		OrderedItems: activities,
	}
	collection := &OutboxCollection{
		ID:         domain + "/outbox",
		TotalItems: len(activities),
		First:      domain + "/toots",
	}
	return page, collection, nil
}

// MarshalJSON emits the page as @context, id, type, prev, partOf,
// totalItems, orderedItems.
func (p *OutboxPage) MarshalJSON() ([]byte, error) {
	return jsonutil.MarshalObject([]jsonutil.Field{
		{Key: "@context", Value: ActivityStreamsContext},
		{Key: "id", Value: p.ID},
		{Key: "type", Value: "OrderedCollectionPage"},
		{Key: "prev", Value: p.Prev},
		{Key: "partOf", Value: p.PartOf},
		{Key: "totalItems", Value: p.TotalItems},
		{Key: "orderedItems", Value: p.OrderedItems},
	})
}

// MarshalJSON emits the collection as @context, id, type, totalItems, first.
func (c *OutboxCollection) MarshalJSON() ([]byte, error) {
	return jsonutil.MarshalObject([]jsonutil.Field{
		{Key: "@context", Value: ActivityStreamsContext},
		{Key: "id", Value: c.ID},
		{Key: "type", Value: "OrderedCollection"},
		{Key: "totalItems", Value: c.TotalItems},
		{Key: "first", Value: c.First},
	})
}
