package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/templates"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

func (h *HandlerService) HomePage(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.HomePage(h.page(r, "")), "home page")
}

// HomeStats renders the number of records of each resource.
// The counts are read from the totals of single item pages requested concurrently; a failed count does not
// prevent the others from being shown.
func (h *HandlerService) HomeStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	first := client.PageOf(1, 1)
	opts := queryOptions(r)

	counts := []templates.EntityCount{
		{Label: "Políticos", Href: "/politicians"},
		{Label: "Projetos de Lei", Href: "/bills"},
		{Label: "Votações", Href: "/votes"},
		{Label: "Contribuições", Href: "/contributions"},
	}

	var g errgroup.Group
	g.Go(func() error {
		countOf(&counts[0], h.Queries.Politicians(ctx, client.PoliticianFilters{Pagination: first}, opts...))
		return nil
	})
	g.Go(func() error {
		countOf(&counts[1], h.Queries.Bills(ctx, client.BillFilters{Pagination: first}, opts...))
		return nil
	})
	g.Go(func() error {
		countOf(&counts[2], h.Queries.Votes(ctx, client.VoteFilters{Pagination: first}, opts...))
		return nil
	})
	g.Go(func() error {
		countOf(&counts[3], h.Queries.Contributions(ctx, client.ContributionFilters{Pagination: first}, opts...))
		return nil
	})
	_ = g.Wait()

	render(w, r, templates.HomeStats(counts), "home stats")
}

func countOf[T any](count *templates.EntityCount, res query.Result[*types.Page[T]]) {
	switch {
	case res.IsError():
		count.Err = res.Message()
	case res.Data == nil:
		count.Err = templates.NoDataMessage
	default:
		count.Total = res.Data.Total
	}
}
