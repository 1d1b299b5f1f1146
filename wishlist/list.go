package wishlist

import (
	"cmp"
	"context"
	"slices"

	"github.com/jacentio/marquee/store"
)

// EnrichedMovie is a movie with its interested-user set attached. CreatedBy
// and InterestedUsers carry resolved usernames where the directory knows
// them, raw user ids otherwise.
type EnrichedMovie struct {
	store.Movie
	InterestedUsers []string `json:"interestedUsers"`
}

// ListMovies returns every movie enriched with its interested users, newest
// first. An empty store yields an empty slice.
//
// All user ids across all movies (interests plus creators) are resolved in
// one directory batch. A failed interest query for a single movie degrades
// to an empty interest list for that movie rather than failing the listing.
func (s *Service) ListMovies(ctx context.Context) ([]EnrichedMovie, error) {
	movies, err := s.store.ScanAllMovies(ctx)
	if err != nil {
		return nil, err
	}

	interestsByMovie := make(map[string][]store.Interest, len(movies))
	var ids []string
	seen := make(map[string]bool)
	collect := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, movie := range movies {
		collect(movie.CreatedBy)

		interests, err := s.store.QueryInterestsByMovie(ctx, movie.MovieID)
		if err != nil {
			s.logger.Warn("interest query failed, listing movie without interests",
				"movieId", movie.MovieID,
				"error", err,
			)
			continue
		}
		interestsByMovie[movie.MovieID] = interests
		for _, interest := range interests {
			collect(interest.UserID)
		}
	}

	resolved := s.resolve(ctx, ids)
	username := func(id string) string {
		if user, ok := resolved[id]; ok && user.Username != "" {
			return user.Username
		}
		return id
	}

	enriched := make([]EnrichedMovie, 0, len(movies))
	for _, movie := range movies {
		interests := interestsByMovie[movie.MovieID]
		interestedUsers := make([]string, 0, len(interests))
		for _, interest := range interests {
			interestedUsers = append(interestedUsers, username(interest.UserID))
		}

		movie.CreatedBy = username(movie.CreatedBy)
		enriched = append(enriched, EnrichedMovie{
			Movie:           movie,
			InterestedUsers: interestedUsers,
		})
	}

	// Newest first; movieId breaks ties so the order is deterministic.
	slices.SortFunc(enriched, func(a, b EnrichedMovie) int {
		if c := cmp.Compare(b.CreatedAt, a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.MovieID, b.MovieID)
	})

	return enriched, nil
}
