package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jacentio/marquee/store"
)

// CreateMovie validates the title, stores a new movie in wishlist status,
// and records the creator's own interest in it.
//
// The movie write and the creator-interest write are two separate puts, not
// a transaction: if the second fails, the movie exists without the creator's
// interest and the error is returned. The caller may re-add the interest;
// both writes are idempotent.
func (s *Service) CreateMovie(ctx context.Context, title, creatorID string) (*store.Movie, error) {
	trimmed, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	movie := &store.Movie{
		MovieID:   uuid.New().String(),
		Title:     trimmed,
		Status:    store.StatusWishlist,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.PutMovie(ctx, movie); err != nil {
		return nil, err
	}

	interest := &store.Interest{
		UserID:    creatorID,
		MovieID:   movie.MovieID,
		CreatedAt: now,
	}
	if err := s.store.PutInterest(ctx, interest); err != nil {
		s.logger.Error("creator interest write failed after movie creation",
			"movieId", movie.MovieID,
			"userId", creatorID,
			"error", err,
		)
		return nil, err
	}

	return movie, nil
}

// UpdateStatus sets a movie's status. The write is conditional on the movie
// existing and always refreshes updatedAt, even when the new status equals
// the current one.
func (s *Service) UpdateStatus(ctx context.Context, movieID, status string) (*store.Movie, error) {
	parsed, err := parseStatus(status)
	if err != nil {
		return nil, err
	}

	return s.store.UpdateMovieStatus(ctx, movieID, parsed, time.Now().Unix())
}
