package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/povodb/povodb-ui/internal/ui/types"
)

var errMissingID = errors.New("record id is required")

// Resource implements the operations shared by every API collection.
//
//	T - list item record
//	D - record returned by GET /{id} (may embed related records)
//	C - create request body
//	U - update request body
type Resource[T, D, C, U any] struct {
	client *Client
	path   string
}

func newResource[T, D, C, U any](c *Client, path string) Resource[T, D, C, U] {
	return Resource[T, D, C, U]{client: c, path: path}
}

// Path returns the collection path relative to the API base path, e.g. /politicians
func (r Resource[T, D, C, U]) Path() string {
	return r.path
}

func (r Resource[T, D, C, U]) itemPath(id string, suffix ...string) string {
	p := fmt.Sprintf("%s/%s", r.path, escapePath(id))
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (r Resource[T, D, C, U]) requireID(id string) error {
	if id == "" {
		return NewClientInternalError(nil, errMissingID, fmt.Sprintf("building %s request", r.path))
	}
	return nil
}

// List fetches one page of the collection. Empty filter values are never sent.
// An envelope that breaks the page invariants (see types.Page.Validate) is returned as an internal error.
func (r Resource[T, D, C, U]) List(ctx context.Context, q Query) (*types.Page[T], error) {
	var page types.Page[T]
	err := r.client.do(ctx, call{
		method: http.MethodGet,
		path:   r.path,
		query:  BuildQuery(q),
		out:    &page,
	})
	if err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		ce := NewClientInternalError(nil, err, fmt.Sprintf("reading %s page", r.path))
		ce.Method, ce.Path = http.MethodGet, r.path
		return nil, ce
	}
	return &page, nil
}

// Get fetches a single record. A missing record is returned as a 404 *ClientError, never as nil data.
func (r Resource[T, D, C, U]) Get(ctx context.Context, id string) (*D, error) {
	if err := r.requireID(id); err != nil {
		return nil, err
	}
	var record D
	if err := r.client.do(ctx, call{method: http.MethodGet, path: r.itemPath(id), out: &record}); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r Resource[T, D, C, U]) Create(ctx context.Context, data C) (*T, error) {
	var record T
	if err := r.client.do(ctx, call{method: http.MethodPost, path: r.path, body: data, out: &record}); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update sends data with PUT. The client does not merge data with any previously fetched state.
func (r Resource[T, D, C, U]) Update(ctx context.Context, id string, data U) (*T, error) {
	if err := r.requireID(id); err != nil {
		return nil, err
	}
	var record T
	if err := r.client.do(ctx, call{method: http.MethodPut, path: r.itemPath(id), body: data, out: &record}); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes a record and returns it as it was before deletion
func (r Resource[T, D, C, U]) Delete(ctx context.Context, id string) (*T, error) {
	if err := r.requireID(id); err != nil {
		return nil, err
	}
	var record T
	if err := r.client.do(ctx, call{method: http.MethodDelete, path: r.itemPath(id), out: &record}); err != nil {
		return nil, err
	}
	return &record, nil
}

// =============================================================================
// POLITICIANS
// =============================================================================

type PoliticianAPI struct {
	Resource[types.Politician, types.Politician, types.PoliticianCreate, types.PoliticianUpdate]
}

// GetWithRelations fetches a politician with their votes, sponsored bills and contributions
func (a *PoliticianAPI) GetWithRelations(ctx context.Context, id string) (*types.PoliticianDetail, error) {
	if err := a.requireID(id); err != nil {
		return nil, err
	}
	var detail types.PoliticianDetail
	if err := a.client.do(ctx, call{method: http.MethodGet, path: a.itemPath(id, "details"), out: &detail}); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetContributions fetches a politician with their contribution statistics
func (a *PoliticianAPI) GetContributions(ctx context.Context, id string) (*types.PoliticianContributions, error) {
	if err := a.requireID(id); err != nil {
		return nil, err
	}
	var contributions types.PoliticianContributions
	if err := a.client.do(ctx, call{method: http.MethodGet, path: a.itemPath(id, "contributions"), out: &contributions}); err != nil {
		return nil, err
	}
	return &contributions, nil
}

// =============================================================================
// BILLS
// =============================================================================

type BillAPI struct {
	Resource[types.Bill, types.BillWithSponsor, types.BillCreate, types.BillUpdate]
}

// =============================================================================
// VOTES
// =============================================================================

type VoteAPI struct {
	Resource[types.Vote, types.VoteWithRelations, types.VoteCreate, types.VoteUpdate]
}

// Statistics returns vote totals for the politicians with the most votes
func (a *VoteAPI) Statistics(ctx context.Context, limit int) ([]types.VoteStatistics, error) {
	var stats []types.VoteStatistics
	err := a.client.do(ctx, call{
		method: http.MethodGet,
		path:   a.path + "/statistics/by-politician",
		query:  BuildQuery(Params{"limit": positive(limit)}),
		out:    &stats,
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

type ContributionAPI struct {
	Resource[types.Contribution, types.ContributionWithPolitician, types.ContributionCreate, types.ContributionUpdate]
}

// TopContributors returns the contributors with the largest total amounts
func (a *ContributionAPI) TopContributors(ctx context.Context, limit int) ([]types.TopContributor, error) {
	var top []types.TopContributor
	err := a.client.do(ctx, call{
		method: http.MethodGet,
		path:   a.path + "/statistics/top-contributors",
		query:  BuildQuery(Params{"limit": positive(limit)}),
		out:    &top,
	})
	if err != nil {
		return nil, err
	}
	return top, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// Health calls the API health endpoint
func (c *Client) Health(ctx context.Context) (*types.HealthStatus, error) {
	var status types.HealthStatus
	if err := c.do(ctx, call{method: http.MethodGet, path: "/health", out: &status}); err != nil {
		return nil, err
	}
	return &status, nil
}

// positive returns nil for n <= 0 so that the server default applies
func positive(n int) any {
	if n <= 0 {
		return nil
	}
	return n
}
