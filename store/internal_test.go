package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// --- mapDeleteTransactionError Tests ---

func TestMapDeleteTransactionError_NilError(t *testing.T) {
	if err := mapDeleteTransactionError(nil, 0); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestMapDeleteTransactionError_MovieConditionFailed(t *testing.T) {
	txErr := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		},
	}

	err := mapDeleteTransactionError(txErr, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMapDeleteTransactionError_OtherItemConditionFailed(t *testing.T) {
	// A condition failure anywhere but the movie delete is not a not-found.
	txErr := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}

	err := mapDeleteTransactionError(txErr, 0)
	var mapped *TransactionError
	if !errors.As(err, &mapped) {
		t.Errorf("expected *TransactionError, got %v", err)
	}
}

func TestMapDeleteTransactionError_CancelledWithoutConditionFailure(t *testing.T) {
	txErr := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("TransactionConflict")},
			{Code: aws.String("None")},
		},
	}

	err := mapDeleteTransactionError(txErr, 0)
	var mapped *TransactionError
	if !errors.As(err, &mapped) {
		t.Fatalf("expected *TransactionError, got %v", err)
	}
	if !errors.As(mapped.Cause, &txErr) {
		t.Errorf("expected cause to carry the cancellation, got %v", mapped.Cause)
	}
}

func TestMapDeleteTransactionError_NilCode(t *testing.T) {
	txErr := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: nil},
		},
	}

	err := mapDeleteTransactionError(txErr, 0)
	var mapped *TransactionError
	if !errors.As(err, &mapped) {
		t.Errorf("expected *TransactionError, got %v", err)
	}
}

func TestMapDeleteTransactionError_BareConditionalCheck(t *testing.T) {
	err := mapDeleteTransactionError(&types.ConditionalCheckFailedException{}, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMapDeleteTransactionError_GenericError(t *testing.T) {
	cause := errors.New("network unreachable")

	err := mapDeleteTransactionError(cause, 0)
	var mapped *TransactionError
	if !errors.As(err, &mapped) {
		t.Fatalf("expected *TransactionError, got %v", err)
	}
	if !errors.Is(mapped, cause) {
		t.Errorf("expected wrapped cause, got %v", mapped.Cause)
	}
}

// --- classify Tests ---

func TestClassify_Nil(t *testing.T) {
	if err := classify(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "throughput exceeded is retryable",
			err:  &types.ProvisionedThroughputExceededException{},
			want: ErrUnavailable,
		},
		{
			name: "request limit is retryable",
			err:  &types.RequestLimitExceeded{},
			want: ErrUnavailable,
		},
		{
			name: "internal server error is retryable",
			err:  &types.InternalServerError{},
			want: ErrUnavailable,
		},
		{
			name: "missing table is rejected",
			err:  &types.ResourceNotFoundException{},
			want: ErrRejected,
		},
		{
			name: "conditional check failed",
			err:  &types.ConditionalCheckFailedException{},
			want: ErrConditionFailed,
		},
		{
			name: "wrapped throughput exceeded",
			err:  fmt.Errorf("operation failed: %w", &types.ProvisionedThroughputExceededException{}),
			want: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify_UnknownErrorPassesThrough(t *testing.T) {
	cause := errors.New("something else")
	if got := classify(cause); got != cause {
		t.Errorf("expected passthrough, got %v", got)
	}
}

// --- Key builder Tests ---

func TestMovieKey(t *testing.T) {
	key := MovieKey("abc-123")

	v, ok := key["movieId"].(*types.AttributeValueMemberS)
	if !ok || v.Value != "abc-123" {
		t.Errorf("expected movieId 'abc-123', got %v", key["movieId"])
	}
}

func TestInterestKeyPK(t *testing.T) {
	key := InterestKeyPK(InterestKey{UserID: "u1", MovieID: "m1"})

	if v, ok := key["userId"].(*types.AttributeValueMemberS); !ok || v.Value != "u1" {
		t.Errorf("expected userId 'u1', got %v", key["userId"])
	}
	if v, ok := key["movieId"].(*types.AttributeValueMemberS); !ok || v.Value != "m1" {
		t.Errorf("expected movieId 'm1', got %v", key["movieId"])
	}
}

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusWishlist, true},
		{StatusDownloaded, true},
		{Status(""), false},
		{Status("Wishlist"), false},
		{Status("deleted"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("Status(%q).Valid() = %v, want %v", tt.status, got, tt.valid)
		}
	}
}
