package wishlist

import (
	"strings"
	"unicode/utf8"

	"github.com/jacentio/marquee/store"
)

// maxTitleLen is the title length limit in characters, after trimming.
const maxTitleLen = 500

// validateTitle trims surrounding whitespace and checks the length bounds,
// returning the trimmed title.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Reason: "Title cannot be empty or whitespace only"}
	}
	if utf8.RuneCountInString(trimmed) > maxTitleLen {
		return "", &ValidationError{Reason: "Title cannot exceed 500 characters"}
	}
	return trimmed, nil
}

// parseStatus validates a raw status value against the two known states.
func parseStatus(raw string) (store.Status, error) {
	status := store.Status(raw)
	if !status.Valid() {
		return "", &ValidationError{Reason: "Status must be one of: wishlist, downloaded"}
	}
	return status, nil
}
