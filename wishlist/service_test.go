package wishlist_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/jacentio/marquee/store"
)

// TestWishlistLifecycle walks one movie through its whole life: proposal,
// a second interested user, an interest withdrawal, and cascade deletion.
func TestWishlistLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, st, db := newTestService(t, nil)

	movie, err := svc.CreateMovie(ctx, "  Inception  ", "u1")
	if err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}
	if movie.Title != "Inception" {
		t.Fatalf("expected trimmed title, got %q", movie.Title)
	}
	if movie.Status != store.StatusWishlist {
		t.Fatalf("expected wishlist status, got %q", movie.Status)
	}

	interestedIDs := func() []string {
		users, err := svc.ListInterestedUsers(ctx, movie.MovieID)
		if err != nil {
			t.Fatalf("ListInterestedUsers: %v", err)
		}
		ids := make([]string, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.UserID)
		}
		slices.Sort(ids)
		return ids
	}

	// The creator is automatically interested.
	if ids := interestedIDs(); !slices.Equal(ids, []string{"u1"}) {
		t.Fatalf("expected creator interest, got %v", ids)
	}

	if _, err := svc.AddInterest(ctx, movie.MovieID, "u2"); err != nil {
		t.Fatalf("AddInterest u2: %v", err)
	}
	if ids := interestedIDs(); !slices.Equal(ids, []string{"u1", "u2"}) {
		t.Fatalf("expected interests {u1, u2}, got %v", ids)
	}

	if err := svc.RemoveInterest(ctx, movie.MovieID, "u1"); err != nil {
		t.Fatalf("RemoveInterest u1: %v", err)
	}
	if ids := interestedIDs(); !slices.Equal(ids, []string{"u2"}) {
		t.Fatalf("expected interests {u2}, got %v", ids)
	}

	if err := svc.DeleteMovie(ctx, movie.MovieID); err != nil {
		t.Fatalf("DeleteMovie: %v", err)
	}
	if _, err := st.GetMovie(ctx, movie.MovieID); !errors.Is(err, store.ErrNotFound) {
		t.Error("movie survived deletion")
	}
	if n := db.ItemCount("interests"); n != 0 {
		t.Errorf("interests survived deletion: %d left", n)
	}

	if err := svc.DeleteMovie(ctx, movie.MovieID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on repeat delete, got %v", err)
	}
}
