// Package identity provides implementations of the wishlist identity
// directory: a Cognito-backed one for production and a static one for tests
// and local runs.
package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"

	"github.com/jacentio/marquee/wishlist"
)

// CognitoAPI is the subset of the Cognito client the directory uses.
type CognitoAPI interface {
	ListUsers(ctx context.Context, params *cognitoidentityprovider.ListUsersInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUsersOutput, error)
}

// CognitoDirectory resolves user ids (Cognito subs) to usernames and emails
// against a user pool.
type CognitoDirectory struct {
	client     CognitoAPI
	userPoolID string
	logger     *slog.Logger
}

// NewCognitoDirectory creates a directory over a user pool. A nil logger
// falls back to slog.Default().
func NewCognitoDirectory(client CognitoAPI, userPoolID string, logger *slog.Logger) *CognitoDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &CognitoDirectory{
		client:     client,
		userPoolID: userPoolID,
		logger:     logger,
	}
}

// Lookup resolves each id with a sub-filtered ListUsers call. Ids that fail
// to resolve — deleted users, throttled calls — are left out of the result
// rather than failing the batch.
func (d *CognitoDirectory) Lookup(ctx context.Context, userIDs []string) (map[string]wishlist.User, error) {
	users := make(map[string]wishlist.User, len(userIDs))

	for _, id := range userIDs {
		resp, err := d.client.ListUsers(ctx, &cognitoidentityprovider.ListUsersInput{
			UserPoolId: aws.String(d.userPoolID),
			Filter:     aws.String(fmt.Sprintf("sub = %q", id)),
			Limit:      aws.Int32(1),
		})
		if err != nil {
			d.logger.Warn("cognito lookup failed",
				"userId", id,
				"error", err,
			)
			continue
		}
		if len(resp.Users) == 0 {
			continue
		}

		user := wishlist.User{
			UserID:   id,
			Username: aws.ToString(resp.Users[0].Username),
		}
		for _, attr := range resp.Users[0].Attributes {
			if aws.ToString(attr.Name) == "email" {
				user.Email = aws.ToString(attr.Value)
			}
		}
		users[id] = user
	}

	return users, nil
}
