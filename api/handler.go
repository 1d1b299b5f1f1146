// Package api maps API Gateway proxy requests onto the wishlist core and
// translates core errors into stable HTTP error envelopes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/marquee/store"
	"github.com/jacentio/marquee/wishlist"
)

// Handler routes API Gateway proxy requests to the wishlist service.
type Handler struct {
	service *wishlist.Service
	logger  *slog.Logger
}

// NewHandler creates a new request handler. A nil logger falls back to
// slog.Default().
func NewHandler(service *wishlist.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type createMovieRequest struct {
	Title string `json:"title"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Handle dispatches a proxy request by method and resource template. It is
// designed to be used as an AWS Lambda handler.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod + " " + req.Resource {
	case "POST /movies":
		return h.createMovie(ctx, req), nil
	case "GET /movies":
		return h.listMovies(ctx), nil
	case "PUT /movies/{movieId}/status":
		return h.updateStatus(ctx, req), nil
	case "DELETE /movies/{movieId}":
		return h.deleteMovie(ctx, req), nil
	case "POST /movies/{movieId}/interest":
		return h.addInterest(ctx, req), nil
	case "DELETE /movies/{movieId}/interest":
		return h.removeInterest(ctx, req), nil
	case "GET /movies/{movieId}/users":
		return h.listInterestedUsers(ctx, req), nil
	default:
		return errorResponse(404, "Route not found", "NotFoundError"), nil
	}
}

func (h *Handler) createMovie(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	userID, ok := callerID(req)
	if !ok {
		return errorResponse(401, "Unauthorized - missing user context", "AuthError")
	}

	var body createMovieRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errorResponse(400, "Invalid JSON in request body", "ValidationError")
	}

	movie, err := h.service.CreateMovie(ctx, body.Title, userID)
	if err != nil {
		return h.fail("createMovie", err)
	}
	return jsonResponse(201, movie)
}

func (h *Handler) listMovies(ctx context.Context) events.APIGatewayProxyResponse {
	movies, err := h.service.ListMovies(ctx)
	if err != nil {
		return h.fail("listMovies", err)
	}
	return jsonResponse(200, movies)
}

func (h *Handler) updateStatus(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	movieID, ok := req.PathParameters["movieId"]
	if !ok || movieID == "" {
		return errorResponse(400, "Missing movieId in path", "ValidationError")
	}

	var body updateStatusRequest
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return errorResponse(400, "Invalid JSON in request body", "ValidationError")
	}

	movie, err := h.service.UpdateStatus(ctx, movieID, body.Status)
	if err != nil {
		return h.fail("updateStatus", err)
	}
	return jsonResponse(200, movie)
}

func (h *Handler) deleteMovie(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	movieID, ok := req.PathParameters["movieId"]
	if !ok || movieID == "" {
		return errorResponse(400, "Missing movieId in path", "ValidationError")
	}

	if err := h.service.DeleteMovie(ctx, movieID); err != nil {
		return h.fail("deleteMovie", err)
	}
	return noContent()
}

func (h *Handler) addInterest(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	movieID, ok := req.PathParameters["movieId"]
	if !ok || movieID == "" {
		return errorResponse(400, "Missing movieId in path", "ValidationError")
	}
	userID, ok := callerID(req)
	if !ok {
		return errorResponse(401, "Unauthorized - missing user context", "AuthError")
	}

	interest, err := h.service.AddInterest(ctx, movieID, userID)
	if err != nil {
		return h.fail("addInterest", err)
	}
	return jsonResponse(201, interest)
}

func (h *Handler) removeInterest(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	movieID, ok := req.PathParameters["movieId"]
	if !ok || movieID == "" {
		return errorResponse(400, "Missing movieId in path", "ValidationError")
	}
	userID, ok := callerID(req)
	if !ok {
		return errorResponse(401, "Unauthorized - missing user context", "AuthError")
	}

	if err := h.service.RemoveInterest(ctx, movieID, userID); err != nil {
		return h.fail("removeInterest", err)
	}
	return noContent()
}

func (h *Handler) listInterestedUsers(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	movieID, ok := req.PathParameters["movieId"]
	if !ok || movieID == "" {
		return errorResponse(400, "Missing movieId in path", "ValidationError")
	}

	users, err := h.service.ListInterestedUsers(ctx, movieID)
	if err != nil {
		return h.fail("listInterestedUsers", err)
	}
	return jsonResponse(200, users)
}

// callerID extracts the authenticated user's sub from the authorizer claims.
func callerID(req events.APIGatewayProxyRequest) (string, bool) {
	claims, ok := req.RequestContext.Authorizer["claims"].(map[string]interface{})
	if !ok {
		return "", false
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", false
	}
	return sub, true
}

// fail translates a core error into its envelope. Each error kind maps to a
// fixed status and type; anything unrecognized becomes a logged 500.
func (h *Handler) fail(op string, err error) events.APIGatewayProxyResponse {
	var validationErr *wishlist.ValidationError
	if errors.As(err, &validationErr) {
		return errorResponse(400, validationErr.Reason, "ValidationError")
	}

	var txErr *store.TransactionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errorResponse(404, "Movie not found", "NotFoundError")
	case errors.Is(err, store.ErrUnavailable):
		return errorResponse(503, "Service temporarily unavailable, please retry", "DatabaseError")
	case errors.As(err, &txErr):
		return errorResponse(500, "Transaction failed, please retry", "TransactionError")
	case errors.Is(err, store.ErrRejected):
		return errorResponse(500, "Internal server error", "DatabaseError")
	}

	h.logger.Error("unexpected error",
		"op", op,
		"error", err,
	)
	return errorResponse(500, "Internal server error", "ServerError")
}
