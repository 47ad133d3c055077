package client

import (
	"math"
	"testing"
	"time"
)

type stringer string

func (s stringer) String() string { return string(s) }

func TestBuildQuery(t *testing.T) {
	var nilString *string
	var nilStringer *stringer
	party := "PT"
	zero := 0.0

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name:   "empty params",
			params: Params{},
			want:   "",
		},
		{
			name:   "nil, nil pointers and empty strings are omitted",
			params: Params{"name": "", "party": nil, "country": nilString, "state_province": nilStringer, "limit": 20},
			want:   "limit=20",
		},
		{
			name:   "scalars are coerced to strings",
			params: Params{"skip": 0, "limit": 100, "include": true, "min_amount": 1500.5},
			want:   "include=true&limit=100&min_amount=1500.5&skip=0",
		},
		{
			name:   "pointers are dereferenced",
			params: Params{"party": &party, "min_amount": &zero},
			want:   "min_amount=0&party=PT",
		},
		{
			name:   "free text is percent-escaped",
			params: Params{"name": "João da Silva & Filhos"},
			want:   "name=Jo%C3%A3o+da+Silva+%26+Filhos",
		},
		{
			name:   "dates are sent as YYYY-MM-DD",
			params: Params{"from_date": time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC), "to_date": time.Time{}},
			want:   "from_date=2024-03-09",
		},
		{
			name:   "stringers use their string form",
			params: Params{"status": stringer("em tramitação")},
			want:   "status=em+tramita%C3%A7%C3%A3o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery(tt.params)
			if got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQueryDeterministic(t *testing.T) {
	a := Params{}
	a["name"] = "Silva"
	a["skip"] = 0
	a["limit"] = 20
	a["country"] = "Brasil"

	b := Params{}
	b["country"] = "Brasil"
	b["limit"] = 20
	b["skip"] = 0
	b["name"] = "Silva"
	b["party"] = ""

	first := BuildQuery(a)
	for i := 0; i < 50; i++ {
		if got := BuildQuery(a); got != first {
			t.Fatalf("BuildQuery() not stable: %q then %q", first, got)
		}
	}
	if got := BuildQuery(b); got != first {
		t.Errorf("equivalent params produced different queries: %q and %q", first, got)
	}
}

func TestBuildQueryNil(t *testing.T) {
	if got := BuildQuery(nil); got != "" {
		t.Errorf("BuildQuery(nil) = %q, want empty", got)
	}
}

func TestPoliticianFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters PoliticianFilters
		want    string
	}{
		{
			name:    "all sentinel is dropped",
			filters: PoliticianFilters{Name: "Silva", Party: "all"},
			want:    "name=Silva",
		},
		{
			name:    "blank free text is dropped",
			filters: PoliticianFilters{Name: "   ", Country: "Brasil"},
			want:    "country=Brasil",
		},
		{
			name:    "pagination is merged with filters",
			filters: PoliticianFilters{Pagination: Pagination{Skip: 0, Limit: 20}, Party: "PL", Country: "all"},
			want:    "limit=20&party=PL&skip=0",
		},
		{
			name:    "decomposed unicode is normalized",
			filters: PoliticianFilters{Name: "Jose\u0301"},
			want:    "name=Jos%C3%A9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.filters); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContributionFiltersZeroBound(t *testing.T) {
	zero := 0.0
	f := ContributionFilters{MinAmount: &zero, ContributorType: "all"}
	if got, want := BuildQuery(f), "min_amount=0"; got != want {
		t.Errorf("BuildQuery() = %q, want %q", got, want)
	}
}

func TestPageOf(t *testing.T) {
	tests := []struct {
		page, size int
		want       Pagination
	}{
		{1, 20, Pagination{Skip: 0, Limit: 20}},
		{3, 20, Pagination{Skip: 40, Limit: 20}},
		{0, 10, Pagination{Skip: 0, Limit: 10}},
		{2, 0, Pagination{Skip: 20, Limit: 20}},
		{math.MaxInt/20 + 2, 20, Pagination{Skip: (math.MaxInt/20 - 1) * 20, Limit: 20}},
		{math.MaxInt, 1, Pagination{Skip: math.MaxInt - 1, Limit: 1}},
	}
	for _, tt := range tests {
		got := PageOf(tt.page, tt.size)
		if got != tt.want {
			t.Errorf("PageOf(%d, %d) = %+v, want %+v", tt.page, tt.size, got, tt.want)
		}
		if got.Skip < 0 {
			t.Errorf("PageOf(%d, %d) skip is negative", tt.page, tt.size)
		}
	}
}

func TestMergeDoesNotModifyReceiver(t *testing.T) {
	base := Params{"limit": 20}
	merged := base.Merge(Params{"limit": 50, "name": "Silva"})

	if base["limit"] != 20 || len(base) != 1 {
		t.Errorf("Merge modified receiver: %v", base)
	}
	if merged["limit"] != 50 || merged["name"] != "Silva" {
		t.Errorf("Merge() = %v", merged)
	}
}
