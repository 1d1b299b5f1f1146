package api

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	ErrorType string `json:"errorType,omitempty"`
}

func corsHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                     "application/json",
		"Access-Control-Allow-Origin":      "*",
		"Access-Control-Allow-Credentials": "true",
	}
}

// jsonResponse serializes body into a response with CORS headers.
func jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		return errorResponse(500, "Internal server error", "ServerError")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(data),
	}
}

// errorResponse builds an error envelope with a stable error kind. Messages
// are user-facing; backend detail never leaves the boundary.
func errorResponse(status int, message, errorType string) events.APIGatewayProxyResponse {
	data, _ := json.Marshal(errorBody{Error: message, ErrorType: errorType})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(data),
	}
}

// noContent builds an empty 204 response.
func noContent() events.APIGatewayProxyResponse {
	headers := corsHeaders()
	delete(headers, "Content-Type")
	return events.APIGatewayProxyResponse{
		StatusCode: 204,
		Headers:    headers,
	}
}
