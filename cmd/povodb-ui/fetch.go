package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/config"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

type fetchOptions struct {
	name    string
	party   string
	country string
	page    int
	watch   bool

	relations     bool
	contributions bool
}

// newFetchCommand returns the command used to check what the ui would show for a query, without a browser
func newFetchCommand() *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:       "fetch <politicians|bills|votes|contributions|health> [id]",
		Short:     "Run a query against the PovoDB API and print the result as JSON",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"politicians", "bills", "votes", "contributions", "health"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 2 {
				id = args[1]
			}
			return fetch(cmd.OutOrStdout(), args[0], id, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "politician name filter")
	cmd.Flags().StringVar(&opts.party, "party", "", "politician party filter")
	cmd.Flags().StringVar(&opts.country, "country", "", "politician country filter")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number (1-indexed)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "keep printing the politician list each time it is refetched")
	cmd.Flags().BoolVar(&opts.relations, "relations", false, "include the votes, sponsored bills and contributions of a politician")
	cmd.Flags().BoolVar(&opts.contributions, "contributions", false, "print the contribution statistics of a politician")
	cmd.MarkFlagsMutuallyExclusive("relations", "contributions")

	return cmd
}

func fetch(w io.Writer, resource, id string, opts fetchOptions) error {
	cfg, _, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	svc, cache := newQueries(cfg, log)
	defer cache.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pagination := client.PageOf(opts.page, 0)

	switch {
	case resource == "politicians" && id != "" && opts.contributions:
		return printResult(w, svc.PoliticianContributions(ctx, id))
	case resource == "politicians" && id != "" && opts.relations:
		return printResult(w, svc.PoliticianDetails(ctx, id))
	case resource == "politicians" && id != "":
		return printResult(w, svc.Politician(ctx, id))
	case resource == "politicians" && opts.watch:
		return watchPoliticians(ctx, w, svc.WatchPoliticians, client.PoliticianFilters{
			Pagination: pagination,
			Name:       opts.name,
			Party:      opts.party,
			Country:    opts.country,
		}, log)
	case resource == "politicians":
		return printResult(w, svc.Politicians(ctx, client.PoliticianFilters{
			Pagination: pagination,
			Name:       opts.name,
			Party:      opts.party,
			Country:    opts.country,
		}))
	case resource == "bills" && id != "":
		return printResult(w, svc.Bill(ctx, id))
	case resource == "bills":
		return printResult(w, svc.Bills(ctx, client.BillFilters{Pagination: pagination}))
	case resource == "votes" && id != "":
		return printResult(w, svc.Vote(ctx, id))
	case resource == "votes":
		return printResult(w, svc.Votes(ctx, client.VoteFilters{Pagination: pagination}))
	case resource == "contributions" && id != "":
		return printResult(w, svc.Contribution(ctx, id))
	case resource == "contributions":
		return printResult(w, svc.Contributions(ctx, client.ContributionFilters{Pagination: pagination}))
	case resource == "health":
		return printResult(w, svc.Health(ctx))
	default:
		return fmt.Errorf("unknown resource %q", resource)
	}
}

func printResult[T any](w io.Writer, res query.Result[T]) error {
	if res.IsError() {
		return errors.New(res.Message())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Data)
}

type politicianWatcher func(context.Context, client.PoliticianFilters, func(query.Result[*types.Page[types.Politician]])) (*query.Subscription, query.Result[*types.Page[types.Politician]])

// watchPoliticians prints the list and every refetched version of it until ctx is canceled
func watchPoliticians(ctx context.Context, w io.Writer, watch politicianWatcher, filters client.PoliticianFilters, log *slog.Logger) error {
	var mu sync.Mutex
	show := func(res query.Result[*types.Page[types.Politician]]) {
		mu.Lock()
		defer mu.Unlock()
		if err := printResult(w, res); err != nil {
			log.Warn("refetch failed", slog.String("error", err.Error()))
		}
	}

	sub, res := watch(ctx, filters, show)
	defer sub.Close()

	if ctx.Err() != nil {
		return nil
	}
	show(res)

	<-ctx.Done()
	return nil
}
