// Package store provides the DynamoDB data access layer for the movie wishlist.
//
// Two tables back the wishlist: a movies table keyed by movieId, and an
// interests table keyed by (userId, movieId) with a global secondary index
// keyed by movieId so every interest in a movie can be queried in one pass.
//
// # Consistency
//
// All cross-item consistency is built on DynamoDB's native primitives:
//
//   - Conditional writes ([Store.UpdateMovieStatus] requires the movie to
//     exist before mutating it).
//   - Multi-item transactions ([Store.TransactDeleteMovie] removes a movie
//     and every interest referencing it in one all-or-nothing commit).
//
// Plain puts and deletes are deliberately unconditional, which is what makes
// interest add/remove idempotent.
//
// # Errors
//
// Failures are classified into a closed set:
//
//   - [ErrNotFound] - the referenced movie does not exist
//   - [ErrConditionFailed] - a conditional write lost a race
//   - [ErrUnavailable] - transient backend overload, safe to retry
//   - [ErrRejected] - malformed request, not retryable
//   - [TransactionError] - a multi-item transaction failed for a reason
//     other than the tracked precondition; the whole operation may be
//     retried because the precondition resolves correctly on replay
package store
