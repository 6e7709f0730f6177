// README: Profile service reads and edits the caller's own profile.
package profile

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"join/internal/modules/company"
	"join/internal/types"
)

var (
	ErrNotFound       = errors.New("profile not found")
	ErrInvalidProfile = errors.New("invalid profile")
)

type Repository interface {
	GetProfile(ctx context.Context, uid types.ID) (Profile, bool, error)
	UpdateProfile(ctx context.Context, uid types.ID, fields map[string]any) error
}

// CompanyDirectory is consulted when a profile changes company.
type CompanyDirectory interface {
	List(ctx context.Context) ([]company.Company, error)
}

type Service struct {
	repo      Repository
	companies CompanyDirectory
}

func NewService(repo Repository, companies CompanyDirectory) *Service {
	return &Service{repo: repo, companies: companies}
}

func (s *Service) Get(ctx context.Context, uid types.ID) (Profile, error) {
	if uid == "" {
		return Profile{}, ErrNotFound
	}
	p, ok, err := s.repo.GetProfile(ctx, uid)
	if err != nil {
		return Profile{}, err
	}
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// Update applies the non-nil fields of u and returns the stored profile.
func (s *Service) Update(ctx context.Context, uid types.ID, u Update) (Profile, error) {
	if uid == "" {
		return Profile{}, ErrNotFound
	}
	u = trimUpdate(u)
	if err := s.validate(ctx, u); err != nil {
		return Profile{}, err
	}
	fields := u.fields()
	if len(fields) > 0 {
		if err := s.repo.UpdateProfile(ctx, uid, fields); err != nil {
			return Profile{}, err
		}
	}
	return s.Get(ctx, uid)
}

func (s *Service) validate(ctx context.Context, u Update) error {
	if u.FirstName != nil && *u.FirstName == "" {
		return fmt.Errorf("%w: first name cannot be blank", ErrInvalidProfile)
	}
	if u.PersonalEmail != nil && *u.PersonalEmail != "" {
		if _, err := mail.ParseAddress(*u.PersonalEmail); err != nil {
			return fmt.Errorf("%w: personal email: %v", ErrInvalidProfile, err)
		}
	}
	if u.DateOfBirth != nil && *u.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *u.DateOfBirth)
		if err != nil || dob.After(time.Now()) {
			return fmt.Errorf("%w: date of birth must be a past yyyy-MM-dd date", ErrInvalidProfile)
		}
	}
	if u.CompanyID != nil && *u.CompanyID != "" && s.companies != nil {
		cs, err := s.companies.List(ctx)
		if err != nil {
			return err
		}
		for _, c := range cs {
			if string(c.ID) == *u.CompanyID {
				return nil
			}
		}
		return fmt.Errorf("%w: unknown company %q", ErrInvalidProfile, *u.CompanyID)
	}
	return nil
}

func trimUpdate(u Update) Update {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	return Update{
		FirstName:     trim(u.FirstName),
		Surname:       trim(u.Surname),
		PersonalEmail: trim(u.PersonalEmail),
		DateOfBirth:   trim(u.DateOfBirth),
		Cellphone:     trim(u.Cellphone),
		CompanyID:     trim(u.CompanyID),
	}
}
