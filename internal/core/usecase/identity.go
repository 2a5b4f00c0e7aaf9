package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"vacancyboard/internal/core/model"
	"vacancyboard/internal/core/ports"
)

// IdentityServiceArgs contains the mandatory arguments for the IdentityService.
type IdentityServiceArgs struct {
	// Store is the identity persistence layer.
	Store ports.IdentityStore
}

// IdentityServiceOptArgs are the optional arguments for building an IdentityService.
type IdentityServiceOptArgs = func(*IdentityService)

// WithIdentityNowFunc can be used to override the nowFunc. Useful for testing.
func WithIdentityNowFunc(nowFunc func() time.Time) IdentityServiceOptArgs {
	return func(s *IdentityService) {
		s.nowFunc = nowFunc
	}
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(args IdentityServiceArgs, optArgs ...IdentityServiceOptArgs) *IdentityService {
	s := &IdentityService{
		store:   args.Store,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// IdentityService maps an email to a stable identity, creating one on first
// sight.
type IdentityService struct {
	store   ports.IdentityStore
	nowFunc func() time.Time
}

// Resolve returns the identity registered for the email, creating it when the
// email has never been seen. Repeat resolutions return the stored identity
// unchanged. Two concurrent first-time resolutions are serialized by the
// store's uniqueness constraint on email: the loser re-reads and returns the
// winner's row.
func (s *IdentityService) Resolve(ctx context.Context, args model.ResolveIdentityArgs) (*model.ResolveIdentityResponse, error) {
	email, err := normalizeEmail(args.Email)
	if err != nil {
		return nil, err
	}

	identity, err := s.store.GetIdentityByEmail(ctx, email)
	if err == nil {
		return &model.ResolveIdentityResponse{Identity: *identity}, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("error looking up identity in store: %w", err)
	}

	created := &model.Identity{
		ID:        uuid.New(),
		Email:     email,
		Role:      model.RoleUser,
		CreatedAt: s.nowFunc(),
	}
	err = s.store.SaveIdentity(ctx, created)
	if err == nil {
		return &model.ResolveIdentityResponse{Identity: *created}, nil
	}
	if !errors.Is(err, model.ErrConflict) {
		return nil, fmt.Errorf("error saving identity in store: %w", err)
	}

	// lost the first-registration race: the email exists now.
	identity, err = s.store.GetIdentityByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error re-reading identity after conflict: %w", err)
	}
	return &model.ResolveIdentityResponse{Identity: *identity}, nil
}

// normalizeEmail trims, lower-cases and parses the address. Lower-casing
// keeps the email usable as the unique business key.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", model.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidEmail, email)
	}
	return addr.Address, nil
}
