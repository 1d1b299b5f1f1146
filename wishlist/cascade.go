package wishlist

import (
	"context"

	"github.com/jacentio/marquee/store"
)

// DeleteMovie removes a movie and every interest referencing it in one
// atomic transaction. Either the movie and all its interests vanish
// together, or nothing is deleted.
//
// The transaction needs an explicit key list, so interests are queried
// first and then deleted by key. An interest written between the query and
// the commit survives the delete; a movie gaining interest while being
// deleted is a benign race in this domain.
//
// Returns store.ErrNotFound when the movie doesn't exist — including any
// interests found in step one, nothing is touched. Any other transaction
// failure surfaces as *store.TransactionError; the whole operation is safe
// to retry.
func (s *Service) DeleteMovie(ctx context.Context, movieID string) error {
	interests, err := s.store.QueryInterestsByMovie(ctx, movieID)
	if err != nil {
		return err
	}

	keys := make([]store.InterestKey, 0, len(interests))
	for _, interest := range interests {
		keys = append(keys, store.InterestKey{
			UserID:  interest.UserID,
			MovieID: interest.MovieID,
		})
	}

	if err := s.store.TransactDeleteMovie(ctx, movieID, keys); err != nil {
		return err
	}

	s.logger.Info("movie deleted",
		"movieId", movieID,
		"interestCount", len(keys),
	)
	return nil
}
