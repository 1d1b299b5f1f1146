// Package wishlist implements the movie wishlist core: movie lifecycle,
// interest tracking, atomic cascade deletion, and the enriched movie listing.
//
// All shared state lives in the store; a Service carries no mutable state of
// its own, so one instance serves concurrent requests. Cross-request
// coordination happens entirely through the store's conditional writes and
// transactions.
package wishlist

import (
	"context"
	"log/slog"

	"github.com/jacentio/marquee/store"
)

// User is a resolved identity-directory entry. Username and Email are empty
// when the directory could not resolve the id.
type User struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Directory resolves opaque user ids against an external identity system.
type Directory interface {
	// Lookup resolves a batch of user ids. Ids that cannot be resolved are
	// absent from the result rather than being an error; a non-nil error
	// means the directory itself is unreachable.
	Lookup(ctx context.Context, userIDs []string) (map[string]User, error)
}

// Service implements the wishlist operations over a Store.
type Service struct {
	store     *store.Store
	directory Directory
	logger    *slog.Logger
}

// NewService creates a Service. directory may be nil, in which case raw user
// ids are surfaced unresolved. A nil logger falls back to slog.Default().
func NewService(s *store.Store, directory Directory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     s,
		directory: directory,
		logger:    logger,
	}
}

// resolve looks up a batch of user ids, degrading to an empty map when the
// directory is absent or unreachable. Callers fall back to raw ids for any
// id missing from the result.
func (s *Service) resolve(ctx context.Context, userIDs []string) map[string]User {
	if s.directory == nil || len(userIDs) == 0 {
		return nil
	}
	users, err := s.directory.Lookup(ctx, userIDs)
	if err != nil {
		s.logger.Warn("identity lookup failed, surfacing raw user ids",
			"userCount", len(userIDs),
			"error", err,
		)
		return nil
	}
	return users
}
