package wishlist_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/jacentio/marquee/identity"
	"github.com/jacentio/marquee/store"
	"github.com/jacentio/marquee/wishlist"
)

func TestAddInterest_Idempotent(t *testing.T) {
	svc, st, db := newTestService(t, nil)
	seedMovie(t, st, "m1", 1700000000)

	for i := 0; i < 3; i++ {
		interest, err := svc.AddInterest(context.Background(), "m1", "u1")
		if err != nil {
			t.Fatalf("AddInterest call %d: %v", i+1, err)
		}
		if interest.UserID != "u1" || interest.MovieID != "m1" {
			t.Errorf("unexpected interest: %+v", interest)
		}
	}

	if n := db.ItemCount("interests"); n != 1 {
		t.Errorf("expected exactly 1 interest after repeated adds, got %d", n)
	}
}

func TestAddInterest_MovieNotFound(t *testing.T) {
	svc, _, db := newTestService(t, nil)

	_, err := svc.AddInterest(context.Background(), "missing", "u1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := db.ItemCount("interests"); n != 0 {
		t.Errorf("interest was created for a nonexistent movie: %d items", n)
	}
}

func TestRemoveInterest_Idempotent(t *testing.T) {
	svc, st, db := newTestService(t, nil)
	seedMovie(t, st, "m1", 1700000000)
	if _, err := svc.AddInterest(context.Background(), "m1", "u1"); err != nil {
		t.Fatalf("AddInterest: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.RemoveInterest(context.Background(), "m1", "u1"); err != nil {
			t.Fatalf("RemoveInterest call %d: %v", i+1, err)
		}
	}

	if n := db.ItemCount("interests"); n != 0 {
		t.Errorf("expected 0 interests, got %d", n)
	}
}

func TestRemoveInterest_NeverExisted(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	// No movie, no interest: removal is still a success.
	if err := svc.RemoveInterest(context.Background(), "missing", "u1"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestListInterestedUsers(t *testing.T) {
	directory := identity.Static{
		"u1": {UserID: "u1", Username: "alice", Email: "alice@example.com"},
	}
	svc, st, _ := newTestService(t, directory)
	seedMovie(t, st, "m1", 1700000000)
	for _, userID := range []string{"u1", "u2"} {
		if _, err := svc.AddInterest(context.Background(), "m1", userID); err != nil {
			t.Fatalf("AddInterest %s: %v", userID, err)
		}
	}

	users, err := svc.ListInterestedUsers(context.Background(), "m1")
	if err != nil {
		t.Fatalf("ListInterestedUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	byID := make(map[string]wishlist.User)
	for _, user := range users {
		byID[user.UserID] = user
	}
	if byID["u1"].Username != "alice" || byID["u1"].Email != "alice@example.com" {
		t.Errorf("u1 not resolved: %+v", byID["u1"])
	}
	// u2 is unknown to the directory; the raw id is surfaced.
	if byID["u2"].UserID != "u2" || byID["u2"].Username != "" {
		t.Errorf("expected raw fallback for u2, got %+v", byID["u2"])
	}
}

func TestListInterestedUsers_NoInterests(t *testing.T) {
	svc, st, _ := newTestService(t, nil)
	seedMovie(t, st, "m1", 1700000000)

	users, err := svc.ListInterestedUsers(context.Background(), "m1")
	if err != nil {
		t.Fatalf("ListInterestedUsers: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no users, got %d", len(users))
	}
}

func TestListInterestedUsers_UnknownMovie(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	users, err := svc.ListInterestedUsers(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected empty result for unknown movie, got %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no users, got %d", len(users))
	}
}

func TestListInterestedUsers_DirectoryDown(t *testing.T) {
	svc, st, _ := newTestService(t, failingDirectory{})
	seedMovie(t, st, "m1", 1700000000)
	if _, err := svc.AddInterest(context.Background(), "m1", "u1"); err != nil {
		t.Fatalf("AddInterest: %v", err)
	}

	users, err := svc.ListInterestedUsers(context.Background(), "m1")
	if err != nil {
		t.Fatalf("directory failure should degrade, not fail: %v", err)
	}
	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.UserID)
	}
	if !slices.Equal(ids, []string{"u1"}) {
		t.Errorf("expected raw ids [u1], got %v", ids)
	}
}

type failingDirectory struct{}

func (failingDirectory) Lookup(ctx context.Context, userIDs []string) (map[string]wishlist.User, error) {
	return nil, errors.New("directory unreachable")
}
