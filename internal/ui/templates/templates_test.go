package templates

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/types"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func ptr[T any](v T) *T {
	return &v
}

func TestPoliticianListStates(t *testing.T) {
	politicians := &types.Page[types.Politician]{
		Items: []types.Politician{
			{ID: "p1", Name: "Maria <Silva>", Party: ptr("PT"), Country: "Brasil", StateProvince: ptr("SP")},
			{ID: "p2", Name: "João Silva", Country: "Brasil"},
		},
		Total: 2, Page: 1, Size: 20, Pages: 1,
	}

	tests := []struct {
		name    string
		res     query.Result[*types.Page[types.Politician]]
		want    []string
		notWant []string
	}{
		{
			name:    "error",
			res:     query.Result[*types.Page[types.Politician]]{Status: query.StatusError, Err: &client.ClientError{Kind: client.KindHTTP, StatusCode: 404, Detail: "Politician not found"}, Data: politicians},
			want:    []string{"Erro ao carregar políticos", "Politician not found"},
			notWant: []string{"João Silva"},
		},
		{
			name:    "idle",
			res:     query.Result[*types.Page[types.Politician]]{Status: query.StatusIdle},
			want:    []string{"Nenhum político encontrado"},
			notWant: []string{"panel-error"},
		},
		{
			name: "success without data",
			res:  query.Result[*types.Page[types.Politician]]{Status: query.StatusSuccess},
			want: []string{"Erro ao carregar políticos", NoDataMessage},
		},
		{
			name: "empty page",
			res:  query.Result[*types.Page[types.Politician]]{Status: query.StatusSuccess, Data: &types.Page[types.Politician]{Page: 1, Size: 20}},
			want: []string{"Nenhum político encontrado", "Tente ajustar seus filtros"},
		},
		{
			name: "items",
			res:  query.Result[*types.Page[types.Politician]]{Status: query.StatusSuccess, Data: politicians},
			want: []string{
				"Maria &lt;Silva&gt;",
				"PT • " + types.NoPosition,
				"SP, Brasil",
				"João Silva",
				types.NoParty,
				`href="/politicians/p2"`,
				"Mostrando 2 de 2 políticos",
			},
			notWant: []string{"panel-error", "Maria <Silva>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, PoliticianList(tt.res, false))
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\n%s", want, got)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("expected output not to contain %q", notWant)
				}
			}
		})
	}
}

func TestPagination(t *testing.T) {
	page := &types.Page[types.Bill]{
		Items: []types.Bill{{ID: "b1", BillNumber: "PL 1/2024", Title: "Orçamento"}},
		Total: 41, Page: 2, Size: 20, Pages: 3,
	}
	got := render(t, BillList(query.Result[*types.Page[types.Bill]]{Status: query.StatusSuccess, Data: page}, false))

	for _, want := range []string{
		`hx-get="/ui-api/bills?page=1"`,
		`hx-get="/ui-api/bills?page=3"`,
		`hx-target="#bill-list"`,
		"Mostrando 1 de 41 projetos",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}

	page.Page = 3
	got = render(t, BillList(query.Result[*types.Page[types.Bill]]{Status: query.StatusSuccess, Data: page}, false))
	if strings.Contains(got, "page=4") {
		t.Error("expected no link past the last page")
	}
}

func TestBillDetailWithoutSponsor(t *testing.T) {
	bill := &types.BillWithSponsor{Bill: types.Bill{ID: "b1", BillNumber: "PL 2630/2020", Title: "Fake news"}}

	got := render(t, BillDetail(query.Result[*types.BillWithSponsor]{Status: query.StatusSuccess, Data: bill}, false))
	if !strings.Contains(got, "Autor:</span> "+types.Unknown) {
		t.Errorf("expected unknown sponsor, got %s", got)
	}

	bill.Sponsor = &types.Politician{ID: "p1", Name: "Maria Silva"}
	got = render(t, BillDetail(query.Result[*types.BillWithSponsor]{Status: query.StatusSuccess, Data: bill}, false))
	if !strings.Contains(got, `href="/politicians/p1"`) {
		t.Errorf("expected sponsor link, got %s", got)
	}
}

func TestPoliticianDetailEmptyRelations(t *testing.T) {
	detail := &types.PoliticianDetail{Politician: types.Politician{ID: "p1", Name: "Maria Silva", Country: "Brasil"}}
	got := render(t, PoliticianDetail(query.Result[*types.PoliticianDetail]{Status: query.StatusSuccess, Data: detail}, false))

	for _, want := range []string{
		"Votações (0)",
		"Nenhum registro de votação disponível para este político.",
		"Nenhum projeto patrocinado disponível para este político.",
		"Nenhum registro de contribuição disponível para este político.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestDebugPanel(t *testing.T) {
	res := query.Result[[]types.TopContributor]{
		Key:       query.Key{Resource: "contributions/top-contributors", Params: "limit=10"},
		Status:    query.StatusSuccess,
		Data:      []types.TopContributor{{ContributorName: "Empresa X", TotalAmount: 1000}},
		UpdatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	got := render(t, TopContributors(res, false))
	if strings.Contains(got, "Debug Panel") {
		t.Error("expected no debug panel outside dev")
	}

	got = render(t, TopContributors(res, true))
	for _, want := range []string{"Debug Panel", "contributions/top-contributors?limit=10", "success", "Empresa X"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected debug output to contain %q", want)
		}
	}
}

func TestFragmentPolling(t *testing.T) {
	t.Run("no refetch interval", func(t *testing.T) {
		got := render(t, PoliticiansPage(Page{Path: "/politicians"}, PoliticianFilterForm{}))
		if !strings.Contains(got, `hx-trigger="load, povodb:refresh from:body"`) {
			t.Errorf("expected the load trigger, got %s", got)
		}
		if strings.Contains(got, "every ") || strings.Contains(got, "hx-vals") {
			t.Error("fragment polls without a refetch interval")
		}
	})

	t.Run("refetch interval", func(t *testing.T) {
		got := render(t, PoliticiansPage(Page{Path: "/politicians", RefetchInterval: 10 * time.Minute}, PoliticianFilterForm{}))
		for _, want := range []string{
			`hx-trigger="load, povodb:refresh from:body"`,
			`hx-trigger="every 600s"`,
			`hx-target="#politician-list"`,
			`hx-vals="{&#34;refetch&#34;:&#34;1&#34;}"`,
			`hx-include="#filters"`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected page to contain %q", want)
			}
		}
	})
}

func TestPollTrigger(t *testing.T) {
	tests := []struct {
		interval time.Duration
		want     string
	}{
		{10 * time.Minute, "every 600s"},
		{300 * time.Millisecond, "every 1s"},
	}
	for _, tt := range tests {
		if got := pollTrigger(tt.interval); got != tt.want {
			t.Errorf("pollTrigger(%v) = %q, want %q", tt.interval, got, tt.want)
		}
	}
}

func TestLayoutHighlightsCurrentSection(t *testing.T) {
	got := render(t, PoliticianDetailPage(Page{Title: "Político", Path: "/politicians/p1"}, "p1"))

	for _, want := range []string{
		`class="nav-link active" href="/politicians"`,
		`hx-get="/ui-api/politicians/p1"`,
		`hx-get="/ui-api/politicians/p1/contributions"`,
		`hx-post="/ui-api/focus"`,
		`hx-vals="{&#34;resource&#34;:&#34;politicians&#34;}"`,
		"<title>Político | PovoDB</title>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestFocusResources(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"politicians", "bills", "votes", "contributions"}},
		{"/politicians", []string{"politicians"}},
		{"/politicians/p1", []string{"politicians"}},
		{"/votes", []string{"votes"}},
		{"/about", nil},
		{"/politiciansx", nil},
	}
	for _, tt := range tests {
		if got := focusResources(tt.path); !slices.Equal(got, tt.want) {
			t.Errorf("focusResources(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	// pages without queries do not post a focus refresh
	if got := render(t, NotFoundPage(Page{Path: "/about"})); strings.Contains(got, "/ui-api/focus") {
		t.Error("not found page should not post focus refreshes")
	}
}

func TestPanicErrorIsRendered(t *testing.T) {
	res := query.Result[[]types.VoteStatistics]{Status: query.StatusError, Err: &query.PanicError{Value: errors.New("boom")}}
	got := render(t, VoteStatistics(res, false))
	if !strings.Contains(got, "boom") {
		t.Errorf("expected panic message, got %s", got)
	}
}
