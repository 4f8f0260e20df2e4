package source

import (
	"context"

	"github.com/Anantaverma20/NovaIQ/internal/dedup"
)

// Source defines the interface for external document discovery backends.
type Source interface {
	// GetSourceID returns the unique identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: stable source identifier.
	GetSourceID() string

	// Configured reports whether the source has the credentials it needs.
	// Parameters: none.
	// Returns:
	//   - bool: true when the source can be queried.
	Configured() bool

	// Search fetches candidate documents matching the query.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - query: free-text search query.
	//   - maxResults: upper bound on returned candidates.
	// Returns:
	//   - []dedup.Candidate: raw candidates, at most maxResults.
	//   - error: non-nil if the fetch fails; transport retries happen
	//     inside the adapter, not here.
	Search(ctx context.Context, query string, maxResults int) ([]dedup.Candidate, error)
}
