package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/queries"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/templates"
)

type fakeAPI struct {
	mu       sync.Mutex
	requests []string
	handler  http.HandlerFunc
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.requests = append(a.requests, r.URL.RequestURI())
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	a.handler(w, r)
}

func (a *fakeAPI) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.requests...)
}

// setupRouter returns the ui routes served by a HandlerService backed by a fake API
func setupRouter(t *testing.T, environment string, api http.HandlerFunc) (http.Handler, *fakeAPI) {
	t.Helper()

	fake := &fakeAPI{handler: api}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg := query.DefaultConfig()
	cfg.Logger = logger.Discard()
	cache := query.New(cfg, query.WithSleep(func(context.Context, time.Duration) error { return nil }))
	t.Cleanup(cache.Close)

	h := &HandlerService{
		Queries:     queries.NewService(client.NewClient(server.URL), cache, logger.Discard()),
		Environment: environment,
	}

	router := chi.NewRouter()
	router.Use(logger.RequestLogging(logger.Discard()))
	router.Get("/", h.HomePage)
	router.Get("/politicians", h.PoliticiansPage)
	router.Get("/ui-api/home/stats", h.HomeStats)
	router.Get("/ui-api/politicians", h.PoliticianList)
	router.Get("/ui-api/politicians/{id}", h.PoliticianDetail)
	router.Get("/ui-api/politicians/{id}/contributions", h.PoliticianContributions)
	router.Get("/ui-api/bills/{id}", h.BillDetail)
	router.Get("/ui-api/votes", h.VoteList)
	router.Post("/ui-api/focus", h.Focus)
	router.Get("/health/live", h.LivenessHandler)
	router.Get("/health/ready", h.ReadinessHandler)
	router.NotFound(h.NotFoundPage)

	return router, fake
}

func get(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func emptyPage(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, `{"items":[],"total":0,"page":1,"size":20,"pages":0}`)
}

func TestPoliticianListFilters(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		wantAPI string
	}{
		{
			name:    "form defaults",
			target:  "/ui-api/politicians",
			wantAPI: "/api/v1/politicians?country=Brasil&limit=20&skip=0",
		},
		{
			name:    "all sentinel",
			target:  "/ui-api/politicians?name=Ana&party=all&country=all&page=2",
			wantAPI: "/api/v1/politicians?limit=20&name=Ana&skip=20",
		},
		{
			name:    "party filter",
			target:  "/ui-api/politicians?party=PT&country=Brasil",
			wantAPI: "/api/v1/politicians?country=Brasil&limit=20&party=PT&skip=0",
		},
		{
			name:    "malformed page",
			target:  "/ui-api/politicians?country=all&page=abc",
			wantAPI: "/api/v1/politicians?limit=20&skip=0",
		},
		{
			name:    "page beyond skip range",
			target:  "/ui-api/politicians?country=all&page=461168601842738792",
			wantAPI: "/api/v1/politicians?limit=20&skip=9223372036854775780",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, api := setupRouter(t, "prod", emptyPage)

			rr := get(t, router, http.MethodGet, tt.target)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			if got := api.Requests(); len(got) != 1 || got[0] != tt.wantAPI {
				t.Errorf("API requests = %v, want [%s]", got, tt.wantAPI)
			}
			if !strings.Contains(rr.Body.String(), "Nenhum político encontrado") {
				t.Errorf("expected empty state, got %s", rr.Body.String())
			}
		})
	}
}

func TestPoliticianList(t *testing.T) {
	router, _ := setupRouter(t, "prod", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[
			{"id":"1","name":"Ana Silva","party":"PT","country":"Brasil"},
			{"id":"2","name":"Bruno Silva","party":null,"country":"Brasil"}
		],"total":2,"page":1,"size":20,"pages":1}`)
	})

	body := get(t, router, http.MethodGet, "/ui-api/politicians?name=Silva").Body.String()
	for _, want := range []string{"Ana Silva", "Bruno Silva", `href="/politicians/2"`, "Independent"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if strings.Contains(body, "Debug Panel") {
		t.Error("debug panel rendered outside dev")
	}
}

func TestPoliticianDetailNotFound(t *testing.T) {
	router, api := setupRouter(t, "prod", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Politician not found"}`)
	})

	rr := get(t, router, http.MethodGet, "/ui-api/politicians/p9")

	// fragments are always sent with 200 so that htmx swaps the error panel in
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, "Politician not found") || !strings.Contains(body, "Erro ao carregar detalhes do político") {
		t.Errorf("expected error panel, got %s", body)
	}

	// detail queries retry once
	want := []string{"/api/v1/politicians/p9/details", "/api/v1/politicians/p9/details"}
	if got := api.Requests(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("API requests = %v, want %v", got, want)
	}
}

func TestPoliticianContributions(t *testing.T) {
	router, api := setupRouter(t, "prod", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"p1","name":"Ana Silva","country":"Brasil",
			"contribution_stats":{"total_amount":2400000,"total_contributions":1200,"average_contribution":2000}}`)
	})

	rr := get(t, router, http.MethodGet, "/ui-api/politicians/p1/contributions")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	for _, want := range []string{"Total recebido", "Média por contribuição", "1.200"} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("expected body to contain %q, got %s", want, rr.Body.String())
		}
	}
	if got := api.Requests(); len(got) != 1 || got[0] != "/api/v1/politicians/p1/contributions" {
		t.Errorf("API requests = %v", got)
	}
}

func TestDebugPanelInDev(t *testing.T) {
	router, _ := setupRouter(t, "dev", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"b1","bill_number":"PL 1/2024","title":"Orçamento","sponsor":null}`)
	})

	body := get(t, router, http.MethodGet, "/ui-api/bills/b1").Body.String()
	for _, want := range []string{"Debug Panel", "bills?id=b1", "PL 1/2024"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

func TestHomeStats(t *testing.T) {
	router, _ := setupRouter(t, "prod", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/politicians":
			_, _ = io.WriteString(w, `{"items":[],"total":513,"page":1,"size":1,"pages":513}`)
		case "/api/v1/bills":
			_, _ = io.WriteString(w, `{"items":[],"total":1200,"page":1,"size":1,"pages":1200}`)
		case "/api/v1/votes":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/v1/contributions":
			_, _ = io.WriteString(w, `{"items":[],"total":7,"page":1,"size":1,"pages":7}`)
		}
	})

	body := get(t, router, http.MethodGet, "/ui-api/home/stats").Body.String()
	for _, want := range []string{"513", "1.200", "7", "Request failed with status code 500"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q, got %s", want, body)
		}
	}
}

func TestFocus(t *testing.T) {
	router, api := setupRouter(t, "prod", emptyPage)

	get(t, router, http.MethodGet, "/ui-api/votes")
	get(t, router, http.MethodGet, "/ui-api/votes")
	if n := len(api.Requests()); n != 1 {
		t.Fatalf("fresh query made %d requests, want 1", n)
	}

	rr := get(t, router, http.MethodPost, "/ui-api/focus")
	if got := rr.Header().Get("HX-Trigger"); got != templates.RefreshEvent {
		t.Errorf("HX-Trigger = %q, want %q", got, templates.RefreshEvent)
	}

	// focus marked the query stale
	get(t, router, http.MethodGet, "/ui-api/votes")
	if n := len(api.Requests()); n != 2 {
		t.Errorf("requests after focus = %d, want 2", n)
	}
}

func TestFocusScopedToPageResources(t *testing.T) {
	router, api := setupRouter(t, "prod", emptyPage)

	get(t, router, http.MethodGet, "/ui-api/politicians")
	get(t, router, http.MethodGet, "/ui-api/votes")
	if n := len(api.Requests()); n != 2 {
		t.Fatalf("initial loads made %d requests, want 2", n)
	}

	get(t, router, http.MethodPost, "/ui-api/focus?"+templates.FocusParam+"=votes")

	// the politicians list was not shown by the focused page and stays fresh
	get(t, router, http.MethodGet, "/ui-api/politicians")
	if n := len(api.Requests()); n != 2 {
		t.Errorf("requests after politicians reload = %d, want 2", n)
	}

	get(t, router, http.MethodGet, "/ui-api/votes")
	requests := api.Requests()
	if len(requests) != 3 || !strings.HasPrefix(requests[2], "/api/v1/votes") {
		t.Errorf("requests after votes reload = %v, want a third request to /api/v1/votes", requests)
	}
}

func TestPeriodicReloadRefetches(t *testing.T) {
	router, api := setupRouter(t, "prod", emptyPage)

	get(t, router, http.MethodGet, "/ui-api/politicians?name=Ana")
	get(t, router, http.MethodGet, "/ui-api/politicians?name=Ana")
	if n := len(api.Requests()); n != 1 {
		t.Fatalf("fresh query made %d requests, want 1", n)
	}

	// the poller reloads with refetch=1 while the cached list is still fresh
	rr := get(t, router, http.MethodGet, "/ui-api/politicians?name=Ana&"+templates.RefetchParam+"=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	got := api.Requests()
	if len(got) != 2 {
		t.Fatalf("requests after periodic reload = %d, want 2", len(got))
	}
	if want := "/api/v1/politicians?country=Brasil&limit=20&name=Ana&skip=0"; got[1] != want {
		t.Errorf("reload requested %s, want %s", got[1], want)
	}

	// the home statistics reload refetches its four counts
	get(t, router, http.MethodGet, "/ui-api/home/stats")
	before := len(api.Requests())
	get(t, router, http.MethodGet, "/ui-api/home/stats?"+templates.RefetchParam+"=1")
	if n := len(api.Requests()) - before; n != 4 {
		t.Errorf("home stats reload made %d requests, want 4", n)
	}
}

func TestHealth(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		router, api := setupRouter(t, "prod", emptyPage)
		if rr := get(t, router, http.MethodGet, "/health/live"); rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
		if len(api.Requests()) != 0 {
			t.Error("liveness check called the API")
		}
	})

	t.Run("ready", func(t *testing.T) {
		router, _ := setupRouter(t, "prod", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"status":"healthy","service":"povodb-api","version":"0.1.0"}`)
		})
		rr := get(t, router, http.MethodGet, "/health/ready")
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var status map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
			t.Fatal(err)
		}
		if status["status"] != "healthy" {
			t.Errorf("status = %v", status)
		}
	})

	t.Run("api down", func(t *testing.T) {
		router, _ := setupRouter(t, "prod", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		rr := get(t, router, http.MethodGet, "/health/ready")
		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"error_code":"api_unavailable"`) {
			t.Errorf("body = %s", rr.Body.String())
		}
	})
}

func TestPages(t *testing.T) {
	router, api := setupRouter(t, "prod", emptyPage)

	tests := []struct {
		target     string
		wantStatus int
		want       string
	}{
		{"/", http.StatusOK, `hx-get="/ui-api/home/stats"`},
		{"/politicians?party=PT", http.StatusOK, `<option value="PT" selected="selected">`},
		{"/no-such-page", http.StatusNotFound, "Oops! Página não encontrada"},
	}
	for _, tt := range tests {
		rr := get(t, router, http.MethodGet, tt.target)
		if rr.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.target, rr.Code, tt.wantStatus)
		}
		if !strings.Contains(rr.Body.String(), tt.want) {
			t.Errorf("%s: expected body to contain %q", tt.target, tt.want)
		}
	}

	// pages are shells, the data is loaded by their fragments
	if n := len(api.Requests()); n != 0 {
		t.Errorf("pages made %d API requests, want 0", n)
	}
}
