// the queries package binds the API resources to the query cache.
//
// Each method is the server side equivalent of a view's data hook: it builds the cache key from the
// resource and parameters, applies the view's retry policy and returns a query.Result for the
// template to render. Extra query options (e.g. query.WithRefetch for a periodic reload) are applied
// after the view's own. Mutations invalidate the cached queries of the resource they change.
package queries

import (
	"context"
	"log/slog"

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

// cache resource names. Sub-resources are invalidated with their parent.
const (
	ResourcePoliticians             = "politicians"
	ResourcePoliticianDetails       = "politicians/details"
	ResourcePoliticianContributions = "politicians/contributions"
	ResourceBills                   = "bills"
	ResourceVotes                   = "votes"
	ResourceVoteStatistics          = "votes/statistics"
	ResourceContributions           = "contributions"
	ResourceTopContributors         = "contributions/top-contributors"
	ResourceHealth                  = "health"
)

type Service struct {
	api    *client.Client
	cache  *query.Cache
	logger *slog.Logger
}

func NewService(api *client.Client, cache *query.Cache, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) Cache() *query.Cache {
	return s.cache
}

// detail queries retry once (lists use the cache default of 2) and only run when the id is known
func detailOptions(id string) []query.Option {
	return []query.Option{
		query.WithRetry(povodb.DetailRetry),
		query.WithEnabled(id != ""),
	}
}

// =============================================================================
// POLITICIANS
// =============================================================================

func (s *Service) Politicians(ctx context.Context, filters client.PoliticianFilters, opts ...query.Option) query.Result[*types.Page[types.Politician]] {
	return query.Fetch(ctx, s.cache, query.KeyFor(ResourcePoliticians, filters),
		func(ctx context.Context) (*types.Page[types.Politician], error) {
			return s.api.Politicians.List(ctx, filters)
		}, opts...)
}

// WatchPoliticians is Politicians for long lived views: notify is called each time the list is
// refetched (refetch interval, Focus or after a politician is changed) until the subscription is closed.
func (s *Service) WatchPoliticians(ctx context.Context, filters client.PoliticianFilters, notify func(query.Result[*types.Page[types.Politician]])) (*query.Subscription, query.Result[*types.Page[types.Politician]]) {
	return query.Subscribe(ctx, s.cache, query.KeyFor(ResourcePoliticians, filters),
		func(ctx context.Context) (*types.Page[types.Politician], error) {
			return s.api.Politicians.List(ctx, filters)
		}, notify)
}

func (s *Service) Politician(ctx context.Context, id string, opts ...query.Option) query.Result[*types.Politician] {
	return query.Fetch(ctx, s.cache, query.IDKey(ResourcePoliticians, id),
		func(ctx context.Context) (*types.Politician, error) {
			return s.api.Politicians.Get(ctx, id)
		}, append(detailOptions(id), opts...)...)
}

func (s *Service) PoliticianDetails(ctx context.Context, id string, opts ...query.Option) query.Result[*types.PoliticianDetail] {
	return query.Fetch(ctx, s.cache, query.IDKey(ResourcePoliticianDetails, id),
		func(ctx context.Context) (*types.PoliticianDetail, error) {
			return s.api.Politicians.GetWithRelations(ctx, id)
		}, append(detailOptions(id), opts...)...)
}

func (s *Service) PoliticianContributions(ctx context.Context, id string, opts ...query.Option) query.Result[*types.PoliticianContributions] {
	return query.Fetch(ctx, s.cache, query.IDKey(ResourcePoliticianContributions, id),
		func(ctx context.Context) (*types.PoliticianContributions, error) {
			return s.api.Politicians.GetContributions(ctx, id)
		}, append(detailOptions(id), opts...)...)
}

func (s *Service) CreatePolitician(ctx context.Context, data types.PoliticianCreate) (*types.Politician, error) {
	politician, err := s.api.Politicians.Create(ctx, data)
	if err != nil {
		return nil, err
	}
	s.invalidate(ResourcePoliticians)
	return politician, nil
}

// UpdatePolitician sends data as-is: the server decides what omitted fields mean
func (s *Service) UpdatePolitician(ctx context.Context, id string, data types.PoliticianUpdate) (*types.Politician, error) {
	politician, err := s.api.Politicians.Update(ctx, id, data)
	if err != nil {
		return nil, err
	}
	s.invalidate(ResourcePoliticians)
	return politician, nil
}

func (s *Service) DeletePolitician(ctx context.Context, id string) (*types.Politician, error) {
	politician, err := s.api.Politicians.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	// votes and contributions embed politician names
	s.invalidate(ResourcePoliticians, ResourceVotes, ResourceContributions)
	return politician, nil
}

func (s *Service) invalidate(resources ...string) {
	for _, r := range resources {
		n := s.cache.Invalidate(r)
		s.logger.Debug("queries invalidated", slog.String("resource", r), slog.Int("entries", n))
	}
}

// =============================================================================
// BILLS
// =============================================================================

func (s *Service) Bills(ctx context.Context, filters client.BillFilters, opts ...query.Option) query.Result[*types.Page[types.Bill]] {
	return query.Fetch(ctx, s.cache, query.KeyFor(ResourceBills, filters),
		func(ctx context.Context) (*types.Page[types.Bill], error) {
			return s.api.Bills.List(ctx, filters)
		}, opts...)
}

func (s *Service) Bill(ctx context.Context, id string, opts ...query.Option) query.Result[*types.BillWithSponsor] {
	return query.Fetch(ctx, s.cache, query.IDKey(ResourceBills, id),
		func(ctx context.Context) (*types.BillWithSponsor, error) {
			return s.api.Bills.Get(ctx, id)
		}, append(detailOptions(id), opts...)...)
}

// =============================================================================
// VOTES
// =============================================================================

func (s *Service) Votes(ctx context.Context, filters client.VoteFilters, opts ...query.Option) query.Result[*types.Page[types.Vote]] {
	return query.Fetch(ctx, s.cache, query.KeyFor(ResourceVotes, filters),
		func(ctx context.Context) (*types.Page[types.Vote], error) {
			return s.api.Votes.List(ctx, filters)
		}, opts...)
}

func (s *Service) Vote(ctx context.Context, id string, opts ...query.Option) query.Result[*types.VoteWithRelations] {
	return query.Fetch(ctx, s.cache, query.IDKey(ResourceVotes, id),
		func(ctx context.Context) (*types.VoteWithRelations, error) {
			return s.api.Votes.Get(ctx, id)
		}, append(detailOptions(id), opts...)...)
}

func (s *Service) VoteStatistics(ctx context.Context, limit int, opts ...query.Option) query.Result[[]types.VoteStatistics] {
	return query.Fetch(ctx, s.cache, query.KeyFor(ResourceVoteStatistics, client.Params{"limit": limit}),
		func(ctx context.Context) ([]types.VoteStatistics, error) {
			return s.api.Votes.Statistics(ctx, limit)
		}, opts...)
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

func (s *Service) Contributions(ctx context.Context, filters client.ContributionFilters, opts ...query.Option) query.Result[*types.Page[types.Contribution]] {
	return query.Fetch(ctx, s.cache, query.KeyFor(ResourceContributions, filters),
		func(ctx context.Context) (*types.Page[types.Contribution], error) {
			return s.api.Contributions.List(ctx, filters)
		}, opts...)
}

func (s *Service) Contribution(ctx context.Context, id string, opts ...query.Option) query.Result[*types.ContributionWithPolitician] {
	return query.Fetch(ctx, s.cache, query.IDKey(ResourceContributions, id),
		func(ctx context.Context) (*types.ContributionWithPolitician, error) {
			return s.api.Contributions.Get(ctx, id)
		}, append(detailOptions(id), opts...)...)
}

func (s *Service) TopContributors(ctx context.Context, limit int, opts ...query.Option) query.Result[[]types.TopContributor] {
	return query.Fetch(ctx, s.cache, query.KeyFor(ResourceTopContributors, client.Params{"limit": limit}),
		func(ctx context.Context) ([]types.TopContributor, error) {
			return s.api.Contributions.TopContributors(ctx, limit)
		}, opts...)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health is not cached: readiness checks need the current state of the API
func (s *Service) Health(ctx context.Context) query.Result[*types.HealthStatus] {
	return query.Fetch(ctx, s.cache, query.Key{Resource: ResourceHealth},
		func(ctx context.Context) (*types.HealthStatus, error) {
			return s.api.Health(ctx)
		}, query.WithStaleTime(0), query.WithRetry(0))
}
