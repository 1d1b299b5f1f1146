package wishlist

import (
	"context"
	"time"

	"github.com/jacentio/marquee/store"
)

// AddInterest records a user's interest in a movie. The movie must exist;
// repeated calls for the same (user, movie) pair rewrite the record and
// always succeed.
func (s *Service) AddInterest(ctx context.Context, movieID, userID string) (*store.Interest, error) {
	if _, err := s.store.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}

	interest := &store.Interest{
		UserID:    userID,
		MovieID:   movieID,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.PutInterest(ctx, interest); err != nil {
		return nil, err
	}
	return interest, nil
}

// RemoveInterest deletes a user's interest in a movie. It succeeds whether or
// not the interest existed, and doesn't check the movie: removal is always
// safe.
func (s *Service) RemoveInterest(ctx context.Context, movieID, userID string) error {
	return s.store.DeleteInterest(ctx, userID, movieID)
}

// ListInterestedUsers returns every user interested in a movie, resolved
// through the identity directory where possible. An unknown movie yields an
// empty slice, not an error.
func (s *Service) ListInterestedUsers(ctx context.Context, movieID string) ([]User, error) {
	interests, err := s.store.QueryInterestsByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(interests))
	for _, interest := range interests {
		ids = append(ids, interest.UserID)
	}

	resolved := s.resolve(ctx, ids)

	users := make([]User, 0, len(ids))
	for _, id := range ids {
		if user, ok := resolved[id]; ok {
			users = append(users, user)
		} else {
			users = append(users, User{UserID: id})
		}
	}
	return users, nil
}
