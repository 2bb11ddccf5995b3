// Package analysis is the client for the MeaningCloud classification and topics APIs.
package analysis

import "context"

// Client calls the analysis service. Responses are returned as decoded; status
// interpretation is left to the caller.
type Client interface {
	Classify(ctx context.Context, key, text string) (*ClassResponse, error)
	Topics(ctx context.Context, key, text string) (*TopicsResponse, error)
}
