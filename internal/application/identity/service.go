package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/moodcircle-api/internal/domain"
	"github.com/moodcircle-api/internal/infrastructure/dynamo"
	"github.com/moodcircle-api/internal/pkg/id"
	"github.com/moodcircle-api/internal/pkg/pseudonym"
)

// maxPseudonymAttempts bounds the regenerate-on-collision loop. The suffix
// space is large enough that hitting this limit means something other than
// bad luck is wrong with the store.
const maxPseudonymAttempts = 5

// Store is the subset of the identity store the resolver needs.
type Store interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPseudonym(ctx context.Context, pseudonym string) (*domain.User, error)
}

// Resolver maps a verified email to an existing or newly created identity.
// Identities are created lazily on first successful verification and are
// immutable afterwards.
type Resolver struct {
	store  Store
	prefix string
}

func NewResolver(store Store, prefix string) *Resolver {
	if prefix == "" {
		prefix = pseudonym.DefaultPrefix
	}
	return &Resolver{store: store, prefix: prefix}
}

// ResolveOrCreate returns the identity for a verified email, creating one
// with a fresh pseudonym if none exists. The email never travels past this
// boundary: callers get back only the opaque id and the pseudonym.
func (r *Resolver) ResolveOrCreate(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.store.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("identity lookup: %w", domain.ErrDependency)
	}

	for attempt := 0; attempt < maxPseudonymAttempts; attempt++ {
		name, err := pseudonym.New(r.prefix)
		if err != nil {
			return nil, fmt.Errorf("pseudonym generation: %w", domain.ErrDependency)
		}
		if _, err := r.store.GetByPseudonym(ctx, name); err == nil {
			// Taken by another identity. Pseudonyms are never reused, so
			// draw a fresh suffix.
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("pseudonym probe: %w", domain.ErrDependency)
		}

		u := &domain.User{
			UserID:    id.New(),
			Email:     email,
			Pseudonym: name,
			CreatedAt: time.Now().UTC(),
		}
		err = r.store.Create(ctx, u)
		if err == nil {
			slog.Info("identity created", "user_id", u.UserID, "pseudonym", u.Pseudonym)
			return u, nil
		}
		if errors.Is(err, dynamo.ErrEmailTaken) {
			// Lost a first-login race; the winner's identity is the identity.
			return r.store.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("identity create: %w", domain.ErrDependency)
	}
	slog.Error("pseudonym generation exhausted retries", "attempts", maxPseudonymAttempts)
	return nil, fmt.Errorf("pseudonym space exhausted: %w", domain.ErrDependency)
}
