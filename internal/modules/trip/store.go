// README: Trip store backed by the Firebase realtime database under data/Trip.
package trip

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"firebase.google.com/go/v4/db"

	"join/internal/types"
)

const tripsPath = "data/Trip"

var errStatusMoved = errors.New("trip status changed concurrently")

type Store struct {
	db *db.Client
}

func NewStore(client *db.Client) *Store {
	return &Store{db: client}
}

func (s *Store) trips() *db.Ref {
	return s.db.NewRef(tripsPath)
}

// Create pushes a new trip and returns the generated key.
func (s *Store) Create(ctx context.Context, rec *Record) (types.ID, error) {
	ref, err := s.trips().Push(ctx, rec.Fields())
	if err != nil {
		return "", fmt.Errorf("creating trip: %w", err)
	}
	return types.ID(ref.Key), nil
}

// Get returns the raw entry for id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id types.ID) (Raw, error) {
	var fields map[string]any
	if err := s.trips().Child(string(id)).Get(ctx, &fields); err != nil {
		return Raw{}, fmt.Errorf("reading trip %s: %w", id, err)
	}
	if fields == nil {
		return Raw{}, ErrNotFound
	}
	return Raw{ID: id, Fields: fields}, nil
}

// ListByDate returns every entry whose date equals dateKey, ordered by key.
func (s *Store) ListByDate(ctx context.Context, dateKey string) ([]Raw, error) {
	var data map[string]any
	if err := s.trips().OrderByChild(FieldDate).EqualTo(dateKey).Get(ctx, &data); err != nil {
		return nil, fmt.Errorf("querying trips for %s: %w", dateKey, err)
	}
	return toRaws(data), nil
}

// UpdateStatus moves a trip from one status to another inside a database
// transaction and applies patch alongside. It reports false when the stored
// status no longer equals from.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, patch map[string]any) (bool, error) {
	ref := s.trips().Child(string(id))
	err := ref.Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var cur map[string]interface{}
		if err := tn.Unmarshal(&cur); err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, ErrNotFound
		}
		if st, _ := cur[FieldStatus].(string); Status(st) != from {
			return nil, errStatusMoved
		}
		cur[FieldStatus] = string(to)
		cur[FieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
		for k, v := range patch {
			cur[k] = v
		}
		return cur, nil
	})
	switch {
	case errors.Is(err, errStatusMoved):
		return false, nil
	case errors.Is(err, ErrNotFound):
		return false, ErrNotFound
	case err != nil:
		return false, fmt.Errorf("updating trip %s: %w", id, err)
	}
	return true, nil
}

func toRaws(data map[string]any) []Raw {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Raw, 0, len(keys))
	for _, k := range keys {
		fields, _ := data[k].(map[string]any)
		out = append(out, Raw{ID: types.ID(k), Fields: fields})
	}
	return out
}
