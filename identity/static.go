package identity

import (
	"context"

	"github.com/jacentio/marquee/wishlist"
)

// Static is a fixed in-memory directory keyed by user id.
type Static map[string]wishlist.User

// Lookup returns the known entries for the requested ids.
func (s Static) Lookup(ctx context.Context, userIDs []string) (map[string]wishlist.User, error) {
	users := make(map[string]wishlist.User, len(userIDs))
	for _, id := range userIDs {
		if user, ok := s[id]; ok {
			users[id] = user
		}
	}
	return users, nil
}
