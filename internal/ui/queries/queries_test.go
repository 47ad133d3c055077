package queries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

type apiRecorder struct {
	mu       sync.Mutex
	requests []string
}

func (a *apiRecorder) record(r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, r.Method+" "+r.URL.RequestURI())
}

func (a *apiRecorder) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

// newTestService returns a service backed by handler, with a cache that does not wait between retries
func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *apiRecorder) {
	t.Helper()
	rec := &apiRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := query.DefaultConfig()
	cfg.Logger = logger.Discard()
	cache := query.New(cfg, query.WithSleep(func(context.Context, time.Duration) error { return nil }))
	t.Cleanup(cache.Close)

	return NewService(client.NewClient(server.URL), cache, logger.Discard()), rec
}

func TestPoliticiansListScenario(t *testing.T) {
	svc, rec := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[
			{"id":"1","name":"Ana Silva","country":"Brasil"},
			{"id":"2","name":"Bruno Silva","country":"Brasil"},
			{"id":"3","name":"Carla Silva","country":"Brasil"}
		],"total":3,"page":1,"size":20,"pages":1}`))
	})

	res := svc.Politicians(context.Background(), client.PoliticianFilters{Name: "Silva", Party: "all"})

	if res.IsLoading() || res.IsError() {
		t.Fatalf("isLoading = %v, isError = %v (%s)", res.IsLoading(), res.IsError(), res.Message())
	}
	if res.Data == nil || len(res.Data.Items) != 3 {
		t.Fatalf("Data = %+v, want 3 items", res.Data)
	}
	if got := rec.Requests(); len(got) != 1 || got[0] != "GET /api/v1/politicians?name=Silva" {
		t.Errorf("requests = %v", got)
	}

	// cache hit within the staleness window
	again := svc.Politicians(context.Background(), client.PoliticianFilters{Name: "Silva"})
	if len(again.Data.Items) != 3 || len(rec.Requests()) != 1 {
		t.Errorf("second call made %d requests, want 1", len(rec.Requests()))
	}
}

func TestRefetchBypassesLongStaleTime(t *testing.T) {
	rec := &apiRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[],"total":0,"page":1,"size":20,"pages":0}`))
	}))
	t.Cleanup(server.Close)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	cfg := query.DefaultConfig()
	cfg.Logger = logger.Discard()
	cfg.StaleTime = 15 * time.Minute
	cfg.RefetchInterval = 10 * time.Minute
	cache := query.New(cfg, query.WithClock(clock))
	t.Cleanup(cache.Close)
	svc := NewService(client.NewClient(server.URL), cache, logger.Discard())

	filters := client.PoliticianFilters{Name: "Silva"}
	svc.Politicians(context.Background(), filters)

	mu.Lock()
	now = now.Add(cfg.RefetchInterval)
	mu.Unlock()

	res := svc.Politicians(context.Background(), filters, query.WithRefetch())
	if res.IsError() {
		t.Fatalf("refetch failed: %s", res.Message())
	}
	if n := len(rec.Requests()); n != 2 {
		t.Errorf("requests after the interval reload = %d, want 2", n)
	}
}

func TestPoliticianNotFound(t *testing.T) {
	svc, rec := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Politician not found"}`))
	})

	res := svc.Politician(context.Background(), "missing-id")

	if !res.IsError() {
		t.Fatalf("status = %v, want error", res.Status)
	}
	if res.Message() != "Politician not found" {
		t.Errorf("Message() = %q", res.Message())
	}
	if res.Data != nil {
		t.Errorf("Data = %+v, want nil", res.Data)
	}
	if !client.IsNotFound(res.Err) {
		t.Errorf("IsNotFound() = false for %v", res.Err)
	}
	// detail queries retry once
	if got := len(rec.Requests()); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
}

func TestListRetriesTwice(t *testing.T) {
	svc, rec := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	res := svc.Bills(context.Background(), client.BillFilters{})
	if !res.IsError() || res.Message() != "Request failed with status code 503" {
		t.Errorf("result = %v %q", res.Status, res.Message())
	}
	if got := len(rec.Requests()); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestDetailQueriesNeedAnID(t *testing.T) {
	svc, rec := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})

	if res := svc.PoliticianDetails(context.Background(), ""); !res.IsIdle() {
		t.Errorf("PoliticianDetails(\"\") status = %v, want idle", res.Status)
	}
	if res := svc.Bill(context.Background(), ""); !res.IsIdle() {
		t.Errorf("Bill(\"\") status = %v, want idle", res.Status)
	}
	if res := svc.Contribution(context.Background(), ""); !res.IsIdle() {
		t.Errorf("Contribution(\"\") status = %v, want idle", res.Status)
	}
	if len(rec.Requests()) != 0 {
		t.Errorf("requests = %v", rec.Requests())
	}
}

func TestMutationsInvalidatePoliticians(t *testing.T) {
	var listCalls atomic.Int32
	svc, rec := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/politicians":
			listCalls.Add(1)
			w.Write([]byte(`{"items":[],"total":0,"page":1,"size":20,"pages":0}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/bills":
			w.Write([]byte(`{"items":[],"total":0,"page":1,"size":20,"pages":0}`))
		case r.Method == http.MethodPut:
			w.Write([]byte(`{"id":"p1","name":"Ana","country":"Brasil","party":"PSB"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	ctx := context.Background()

	svc.Politicians(ctx, client.PoliticianFilters{})
	svc.Bills(ctx, client.BillFilters{})

	party := "PSB"
	updated, err := svc.UpdatePolitician(ctx, "p1", types.PoliticianUpdate{Party: &party})
	if err != nil {
		t.Fatalf("UpdatePolitician() error = %v", err)
	}
	if updated.PartyLabel() != "PSB" {
		t.Errorf("PartyLabel() = %q", updated.PartyLabel())
	}

	svc.Politicians(ctx, client.PoliticianFilters{})
	if got := listCalls.Load(); got != 2 {
		t.Errorf("politician list fetched %d times, want 2", got)
	}

	before := len(rec.Requests())
	svc.Bills(ctx, client.BillFilters{})
	if len(rec.Requests()) != before {
		t.Errorf("bills were refetched after a politician update")
	}
}

func TestFailedMutationDoesNotInvalidate(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"detail":[{"loc":["body","name"],"msg":"field required","type":"value_error.missing"}]}`))
			return
		}
		w.Write([]byte(`{"items":[],"total":0,"page":1,"size":20,"pages":0}`))
	})
	ctx := context.Background()

	svc.Politicians(ctx, client.PoliticianFilters{})
	_, err := svc.CreatePolitician(ctx, types.PoliticianCreate{Country: "Brasil"})
	if err == nil {
		t.Fatal("CreatePolitician() error = nil")
	}
	if got := client.ErrorMessage(err); got != "name: field required" {
		t.Errorf("ErrorMessage() = %q", got)
	}

	keys := svc.Cache().Keys()
	if status, ok := keys[query.KeyFor(ResourcePoliticians, client.PoliticianFilters{})]; !ok || status != query.StatusSuccess {
		t.Errorf("cached list status = %v (present %v)", status, ok)
	}
}

func TestHealthIsNotCached(t *testing.T) {
	svc, rec := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy","service":"povodb-api","version":"0.1.0"}`))
	})

	for range 2 {
		res := svc.Health(context.Background())
		if !res.IsSuccess() || res.Data.Status != "healthy" {
			t.Fatalf("Health() = %+v", res)
		}
	}
	if got := len(rec.Requests()); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
}

func TestWatchPoliticiansNotifiedOnFocus(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"items":[{"id":"1","name":"Ana Silva"}],"total":1,"page":1,"size":20,"pages":1}`))
	})

	updates := make(chan query.Result[*types.Page[types.Politician]], 4)
	sub, first := svc.WatchPoliticians(context.Background(), client.PoliticianFilters{}, func(r query.Result[*types.Page[types.Politician]]) {
		updates <- r
	})
	defer sub.Close()
	if !first.IsSuccess() || len(first.Data.Items) != 1 {
		t.Fatalf("WatchPoliticians() first result = %+v", first)
	}
	<-updates // the initial fetch is delivered too

	if got := svc.Cache().Focus(ResourcePoliticians); got != 1 {
		t.Errorf("Focus() refetched %d entries, want 1", got)
	}
	select {
	case r := <-updates:
		if !r.IsSuccess() {
			t.Errorf("update after focus = %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher not notified after Focus")
	}
	if calls.Load() != 2 {
		t.Errorf("API calls = %d, want 2", calls.Load())
	}
}
