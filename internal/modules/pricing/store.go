// README: Pricing store caches issued quotes in Redis.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"join/internal/types"
)

const quoteKeyPrefix = "pricing:quote:%s"

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// storedQuote is the JSON shape kept in Redis; class rates are resolved
// from the catalog on load so only fees are persisted.
type storedQuote struct {
	ID          string                     `json:"id"`
	Origin      types.Point                `json:"origin"`
	Destination types.Point                `json:"destination"`
	DistanceKm  float64                    `json:"distance_km"`
	DurationMin float64                    `json:"duration_min"`
	Passengers  int                        `json:"passengers"`
	Currency    string                     `json:"currency"`
	Fees        map[string]decimal.Decimal `json:"fees"`
	ExpiresAt   time.Time                  `json:"expires_at"`
}

func (s *Store) SaveQuote(ctx context.Context, q Quote, ttl time.Duration) error {
	sq := storedQuote{
		ID:          string(q.ID),
		Origin:      q.Origin,
		Destination: q.Destination,
		DistanceKm:  q.DistanceKm,
		DurationMin: q.DurationMin,
		Passengers:  q.Passengers,
		Fees:        make(map[string]decimal.Decimal, len(q.Options)),
		ExpiresAt:   q.ExpiresAt,
	}
	for _, o := range q.Options {
		sq.Fees[o.Class.Name] = o.Fee.Amount
		sq.Currency = o.Fee.Currency
	}
	data, err := json.Marshal(sq)
	if err != nil {
		return fmt.Errorf("encoding quote: %w", err)
	}
	if err := s.redis.Set(ctx, quoteKey(q.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("saving quote %s: %w", q.ID, err)
	}
	return nil
}

func (s *Store) GetQuote(ctx context.Context, id types.ID) (Quote, error) {
	data, err := s.redis.Get(ctx, quoteKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Quote{}, ErrQuoteNotFound
	}
	if err != nil {
		return Quote{}, fmt.Errorf("loading quote %s: %w", id, err)
	}
	var sq storedQuote
	if err := json.Unmarshal(data, &sq); err != nil {
		return Quote{}, fmt.Errorf("decoding quote %s: %w", id, err)
	}
	return sq.toQuote(), nil
}

func (sq storedQuote) toQuote() Quote {
	q := Quote{
		ID:          types.ID(sq.ID),
		Origin:      sq.Origin,
		Destination: sq.Destination,
		DistanceKm:  sq.DistanceKm,
		DurationMin: sq.DurationMin,
		Passengers:  sq.Passengers,
		ExpiresAt:   sq.ExpiresAt,
	}
	for _, class := range Catalog() {
		fee, ok := sq.Fees[class.Name]
		if !ok {
			continue
		}
		q.Options = append(q.Options, QuoteOption{
			Class: class,
			Fee:   types.Money{Amount: fee, Currency: sq.Currency},
		})
	}
	return q
}

func quoteKey(id types.ID) string {
	return fmt.Sprintf(quoteKeyPrefix, string(id))
}
