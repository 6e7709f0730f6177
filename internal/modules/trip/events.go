// README: Trip status-event log backed by PostgreSQL.
package trip

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"join/internal/types"
)

type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO trip_status_events (
            trip_id, from_status, to_status, actor_type, actor_id, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.TripID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

// ListEvents returns a trip's status history, oldest first.
func (s *EventStore) ListEvents(ctx context.Context, tripID types.ID) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, trip_id, from_status, to_status, actor_type, actor_id, created_at
        FROM trip_status_events
        WHERE trip_id = $1
        ORDER BY created_at, id`, string(tripID),
	)
	if err != nil {
		return nil, fmt.Errorf("querying events for %s: %w", tripID, err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		var e Event
		var actorID *string
		err := row.Scan(&e.ID, &e.TripID, &e.FromStatus, &e.ToStatus, &e.ActorType, &actorID, &e.CreatedAt)
		if actorID != nil {
			id := types.ID(*actorID)
			e.ActorID = &id
		}
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning events for %s: %w", tripID, err)
	}
	return events, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
