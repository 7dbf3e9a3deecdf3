// Package search retrieves candidate evidence documents for a claim from a
// web search provider. The pipeline consumes the Client interface only;
// provider specifics (quota, caching, rate limits) stay inside the
// implementation.
package search

import (
	"context"

	"github.com/factlab/veracity/internal/model"
)

// MaxResults is the most documents a single search may request. Google
// Programmable Search caps num at 10; other providers are clamped the same
// way so pipeline behavior does not depend on the provider.
const MaxResults = 10

// Client returns a ranked list of web documents for a query.
type Client interface {
	Search(ctx context.Context, query string, numResults int) ([]model.Document, error)
}
