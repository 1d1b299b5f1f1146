// Command wishlist is the Lambda entrypoint for the movie wishlist API.
//
// Environment:
//
//	MOVIES_TABLE_NAME     movies table (required)
//	INTERESTS_TABLE_NAME  interests table (required)
//	INTERESTS_INDEX_NAME  interests-by-movie GSI (default "interests-by-movie")
//	USER_POOL_ID          Cognito user pool for username resolution (optional;
//	                      raw user ids are surfaced when unset)
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/jacentio/marquee/api"
	"github.com/jacentio/marquee/identity"
	"github.com/jacentio/marquee/store"
	"github.com/jacentio/marquee/wishlist"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	moviesTable := os.Getenv("MOVIES_TABLE_NAME")
	interestsTable := os.Getenv("INTERESTS_TABLE_NAME")
	if moviesTable == "" || interestsTable == "" {
		logger.Error("MOVIES_TABLE_NAME and INTERESTS_TABLE_NAME must be set")
		os.Exit(1)
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	st := store.New(dynamodb.NewFromConfig(cfg), store.Config{
		MoviesTable:           moviesTable,
		InterestsTable:        interestsTable,
		InterestsByMovieIndex: os.Getenv("INTERESTS_INDEX_NAME"),
	})

	var directory wishlist.Directory
	if userPoolID := os.Getenv("USER_POOL_ID"); userPoolID != "" {
		directory = identity.NewCognitoDirectory(
			cognitoidentityprovider.NewFromConfig(cfg), userPoolID, logger)
	}

	service := wishlist.NewService(st, directory, logger)
	handler := api.NewHandler(service, logger)

	lambda.Start(handler.Handle)
}
