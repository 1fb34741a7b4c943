// Package feed models the change-notification channel between the two
// clients sharing a puzzle. Delivery is at-least-once with no ordering
// guarantee across rows; consumers treat every event as a hint to refetch
// the authoritative record.
package feed

import "context"

// Event kinds mirrored from the persistence layer
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
)

// RecordChange announces that a row in a table was mutated. Fields carries
// the columns subscribers filter on; it is advisory, not the full payload.
type RecordChange struct {
	Table    string            `json:"table"`
	Event    string            `json:"event"`
	RecordID string            `json:"record_id"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Filter is a single column equality predicate, the shape the clients
// subscribe with (e.g. solver_id = <me>). The zero Filter matches all rows.
type Filter struct {
	Column string
	Value  string
}

func (f Filter) Matches(change RecordChange) bool {
	if f.Column == "" {
		return true
	}
	return change.Fields[f.Column] == f.Value
}

// Subscription is an explicit handle on one feed stream. Close tears the
// stream down; leaking one per page visit is exactly the bug this exists
// to prevent.
type Subscription struct {
	C     <-chan RecordChange
	close func()
}

func (s *Subscription) Close() {
	s.close()
}

// Feed publishes and subscribes to record changes
type Feed interface {
	Publish(ctx context.Context, change RecordChange) error
	Subscribe(ctx context.Context, table string, filter Filter) (*Subscription, error)
}
