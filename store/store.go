package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// DynamoDBAPI is the subset of the DynamoDB client the Store uses. A narrow
// interface here lets tests substitute an in-memory double that can fail a
// transaction mid-flight.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store provides DynamoDB operations for the movies and interests tables.
type Store struct {
	client DynamoDBAPI
	config Config
}

// New creates a new Store instance.
func New(client DynamoDBAPI, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// GetMovie retrieves a movie by id, returning ErrNotFound if missing.
func (s *Store) GetMovie(ctx context.Context, movieID string) (*Movie, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.MoviesTable),
		Key:       MovieKey(movieID),
	})
	if err != nil {
		return nil, classify(err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var movie Movie
	if err := attributevalue.UnmarshalMap(result.Item, &movie); err != nil {
		return nil, fmt.Errorf("unmarshal movie: %w", err)
	}
	return &movie, nil
}

// PutMovie writes a movie unconditionally (upsert).
func (s *Store) PutMovie(ctx context.Context, movie *Movie) error {
	item, err := attributevalue.MarshalMap(movie)
	if err != nil {
		return fmt.Errorf("marshal movie: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.MoviesTable),
		Item:      item,
	})
	return classify(err)
}

// PutInterest writes an interest unconditionally. Writing over an existing
// (userId, movieId) pair replaces it, which makes repeated adds idempotent.
func (s *Store) PutInterest(ctx context.Context, interest *Interest) error {
	item, err := attributevalue.MarshalMap(interest)
	if err != nil {
		return fmt.Errorf("marshal interest: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.InterestsTable),
		Item:      item,
	})
	return classify(err)
}

// DeleteInterest removes an interest unconditionally. Deleting a record that
// was never written succeeds, which makes repeated removes idempotent.
func (s *Store) DeleteInterest(ctx context.Context, userID, movieID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.InterestsTable),
		Key:       InterestKeyPK(InterestKey{UserID: userID, MovieID: movieID}),
	})
	return classify(err)
}

// QueryInterestsByMovie returns every interest referencing a movie via the
// secondary index. An unknown movie yields an empty slice, not an error.
func (s *Store) QueryInterestsByMovie(ctx context.Context, movieID string) ([]Interest, error) {
	var interests []Interest

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.InterestsTable),
		IndexName:              aws.String(s.config.InterestsByMovieIndex),
		KeyConditionExpression: aws.String("movieId = :movieId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":movieId": &types.AttributeValueMemberS{Value: movieID},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		var batch []Interest
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal interests: %w", err)
		}
		interests = append(interests, batch...)
	}

	return interests, nil
}

// ScanAllMovies returns every movie in the table.
func (s *Store) ScanAllMovies(ctx context.Context) ([]Movie, error) {
	var movies []Movie

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.config.MoviesTable),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		var batch []Movie
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal movies: %w", err)
		}
		movies = append(movies, batch...)
	}

	return movies, nil
}

// UpdateMovieStatus sets a movie's status and updatedAt, conditional on the
// movie existing. Returns the updated movie, or ErrNotFound if it doesn't
// exist.
func (s *Store) UpdateMovieStatus(ctx context.Context, movieID string, status Status, updatedAt int64) (*Movie, error) {
	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.config.MoviesTable),
		Key:                 MovieKey(movieID),
		UpdateExpression:    aws.String("SET #status = :status, updatedAt = :updatedAt"),
		ConditionExpression: aws.String("attribute_exists(movieId)"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: string(status)},
			":updatedAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(updatedAt, 10)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}

	var movie Movie
	if err := attributevalue.UnmarshalMap(result.Attributes, &movie); err != nil {
		return nil, fmt.Errorf("unmarshal movie: %w", err)
	}
	return &movie, nil
}

// TransactDeleteMovie deletes a movie and the given interest records in a
// single transaction. The movie delete is conditional on the movie existing;
// the interest deletes are unconditional. All deletes apply, or none do.
//
// Outcomes form a closed set: nil means committed, ErrNotFound means the
// movie didn't exist (nothing was deleted, interests included), and
// *TransactionError covers everything else.
func (s *Store) TransactDeleteMovie(ctx context.Context, movieID string, interestKeys []InterestKey) error {
	// Movie delete is item 0; its index is what the cancellation reasons are
	// matched against.
	items := []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName:           aws.String(s.config.MoviesTable),
				Key:                 MovieKey(movieID),
				ConditionExpression: aws.String("attribute_exists(movieId)"),
			},
		},
	}

	for _, key := range interestKeys {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(s.config.InterestsTable),
				Key:       InterestKeyPK(key),
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})

	return mapDeleteTransactionError(err, 0)
}

// mapDeleteTransactionError maps TransactWriteItems failures to the closed
// outcome set of TransactDeleteMovie. movieCheckIndex is the position of the
// conditional movie delete in the transaction.
func mapDeleteTransactionError(err error, movieCheckIndex int) error {
	if err == nil {
		return nil
	}

	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for i, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				if i == movieCheckIndex {
					return ErrNotFound
				}
			}
		}
		return &TransactionError{Cause: err}
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrNotFound
	}

	return &TransactionError{Cause: classify(err)}
}

// classify maps SDK failures onto the package's error taxonomy. Throttling
// and server faults are retryable (ErrUnavailable); request faults are not
// (ErrRejected). Errors that don't match any known shape pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var (
		throughput *types.ProvisionedThroughputExceededException
		reqLimit   *types.RequestLimitExceeded
		internal   *types.InternalServerError
		noTable    *types.ResourceNotFoundException
	)
	switch {
	case errors.As(err, &throughput), errors.As(err, &reqLimit), errors.As(err, &internal):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.As(err, &noTable):
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrConditionFailed
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceUnavailable", "LimitExceededException":
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		case "ValidationException", "SerializationException", "AccessDeniedException":
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}
	}

	return err
}
