package store

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Status is the download status of a movie.
type Status string

const (
	// StatusWishlist marks a movie as proposed but not yet downloaded.
	StatusWishlist Status = "wishlist"

	// StatusDownloaded marks a movie as downloaded.
	StatusDownloaded Status = "downloaded"
)

// Valid reports whether s is one of the two known status values.
func (s Status) Valid() bool {
	return s == StatusWishlist || s == StatusDownloaded
}

// Movie is a wishlist entry. MovieID, CreatedBy and CreatedAt are set once
// at creation; Status and UpdatedAt change on every status write.
type Movie struct {
	MovieID   string `dynamodbav:"movieId" json:"movieId"`
	Title     string `dynamodbav:"title" json:"title"`
	Status    Status `dynamodbav:"status" json:"status"`
	CreatedBy string `dynamodbav:"createdBy" json:"createdBy"`
	CreatedAt int64  `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt int64  `dynamodbav:"updatedAt" json:"updatedAt"`
}

// Key returns the movies-table primary key for m.
func (m *Movie) Key() PK {
	return MovieKey(m.MovieID)
}

// MovieKey builds the movies-table primary key for a movie id.
func MovieKey(movieID string) PK {
	return PK{
		"movieId": &types.AttributeValueMemberS{Value: movieID},
	}
}

// Interest records that a user wants a movie. The (UserID, MovieID) pair is
// the primary key; a user has at most one interest per movie.
type Interest struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	MovieID   string `dynamodbav:"movieId" json:"movieId"`
	CreatedAt int64  `dynamodbav:"createdAt" json:"createdAt"`
}

// Key returns the interests-table primary key for i.
func (i *Interest) Key() PK {
	return InterestKeyPK(InterestKey{UserID: i.UserID, MovieID: i.MovieID})
}

// InterestKey identifies a single interest record.
type InterestKey struct {
	UserID  string
	MovieID string
}

// InterestKeyPK builds the interests-table primary key for k.
func InterestKeyPK(k InterestKey) PK {
	return PK{
		"userId":  &types.AttributeValueMemberS{Value: k.UserID},
		"movieId": &types.AttributeValueMemberS{Value: k.MovieID},
	}
}
