// README: Profile store backed by the realtime database users node.
package profile

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/db"

	"join/internal/types"
)

const usersPath = "users"

type Store struct {
	db *db.Client
}

func NewStore(client *db.Client) *Store {
	return &Store{db: client}
}

func (s *Store) user(uid types.ID) *db.Ref {
	return s.db.NewRef(usersPath).Child(string(uid))
}

// GetProfile reports false when no profile exists for uid.
func (s *Store) GetProfile(ctx context.Context, uid types.ID) (Profile, bool, error) {
	var raw map[string]any
	if err := s.user(uid).Get(ctx, &raw); err != nil {
		return Profile{}, false, fmt.Errorf("reading profile %s: %w", uid, err)
	}
	if raw == nil {
		return Profile{}, false, nil
	}
	str := func(k string) string {
		v, _ := raw[k].(string)
		return v
	}
	return Profile{
		FirstName:     str("firstName"),
		Surname:       str("surname"),
		PersonalEmail: str("personalEmail"),
		DateOfBirth:   str("dateOfBirth"),
		Cellphone:     str("cellphone"),
		CompanyID:     str("companyId"),
		AccountStatus: str("accountStatus"),
	}, true, nil
}

func (s *Store) UpdateProfile(ctx context.Context, uid types.ID, fields map[string]any) error {
	if err := s.user(uid).Update(ctx, fields); err != nil {
		return fmt.Errorf("updating profile %s: %w", uid, err)
	}
	return nil
}
