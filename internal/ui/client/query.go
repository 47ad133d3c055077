package client

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	povodb "github.com/povodb/povodb-ui"
)

// Params holds list query parameters: pagination (skip, limit, page) merged with resource filters.
// Values are scalars (string, bool, ints, floats, fmt.Stringer or pointers to these).
// nil values, nil pointers and empty strings are never sent: the API treats "present but empty" and
// "absent" differently for some filters.
type Params map[string]any

// Query is implemented by anything that can be turned into list query parameters
type Query interface {
	Params() Params
}

// Params lets a plain Params value be used as a Query
func (p Params) Params() Params {
	return p
}

// Merge returns a new Params holding p overlaid with each of others (later values win)
func (p Params) Merge(others ...Params) Params {
	merged := make(Params, len(p))
	for k, v := range p {
		merged[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			merged[k] = v
		}
	}
	return merged
}

// Values converts the params to url.Values, dropping absent and empty entries
func (p Params) Values() url.Values {
	values := url.Values{}
	for key, value := range p {
		s, ok := formatValue(value)
		if !ok || s == "" {
			continue
		}
		values.Set(key, s)
	}
	return values
}

// BuildQuery converts params to a URL-encoded query string without the leading "?".
//
// The output is deterministic: keys are sorted, so params with the same effective content always produce
// the same string regardless of how they were assembled. The query cache relies on this for its keys.
func BuildQuery(q Query) string {
	if q == nil {
		return ""
	}
	return q.Params().Values().Encode()
}

// formatValue coerces a scalar to its string form. ok is false for nil and nil pointers.
func formatValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.Format(time.DateOnly), true
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return v.String(), true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return formatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(value), true
}

// =============================================================================
// TYPED QUERIES
// =============================================================================

// Pagination selects a page of a list endpoint.
// Skip is always sent when Limit is set, Page only when positive.
type Pagination struct {
	Skip  int
	Limit int
	Page  int
}

func (p Pagination) Params() Params {
	params := Params{}
	if p.Limit > 0 {
		params["skip"] = p.Skip
		params["limit"] = p.Limit
	}
	if p.Page > 0 {
		params["page"] = p.Page
	}
	return params
}

// PageOf returns the pagination for a 1-indexed page number.
// Page numbers too large for skip to be represented select the last representable page.
func PageOf(page, size int) Pagination {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = povodb.DefaultPageSize
	}
	page = min(page, math.MaxInt/size)
	return Pagination{Skip: (page - 1) * size, Limit: size}
}

// filterValue normalises a dropdown or free-text filter: the "all" sentinel and blank values are dropped
func filterValue(s string) any {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" || s == povodb.FilterAll {
		return nil
	}
	return s
}

// PoliticianFilters are the filters accepted by GET /politicians
type PoliticianFilters struct {
	Pagination
	Name          string
	Party         string
	Country       string
	StateProvince string
}

func (f PoliticianFilters) Params() Params {
	return f.Pagination.Params().Merge(Params{
		"name":           filterValue(f.Name),
		"party":          filterValue(f.Party),
		"country":        filterValue(f.Country),
		"state_province": filterValue(f.StateProvince),
	})
}

// BillFilters are the filters accepted by GET /bills
type BillFilters struct {
	Pagination
	Status    string
	SponsorID string
}

func (f BillFilters) Params() Params {
	return f.Pagination.Params().Merge(Params{
		"status":     filterValue(f.Status),
		"sponsor_id": filterValue(f.SponsorID),
	})
}

// VoteFilters are the filters accepted by GET /votes
type VoteFilters struct {
	Pagination
	PoliticianID string
	BillID       string
	VotePosition string
	VoteResult   string
	FromDate     time.Time
	ToDate       time.Time
}

func (f VoteFilters) Params() Params {
	return f.Pagination.Params().Merge(Params{
		"politician_id": filterValue(f.PoliticianID),
		"bill_id":       filterValue(f.BillID),
		"vote_position": filterValue(f.VotePosition),
		"vote_result":   filterValue(f.VoteResult),
		"from_date":     f.FromDate,
		"to_date":       f.ToDate,
	})
}

// ContributionFilters are the filters accepted by GET /contributions.
// MinAmount and MaxAmount are pointers because zero is a meaningful bound.
type ContributionFilters struct {
	Pagination
	PoliticianID    string
	ContributorName string
	ContributorType string
	MinAmount       *float64
	MaxAmount       *float64
	FromDate        time.Time
	ToDate          time.Time
}

func (f ContributionFilters) Params() Params {
	return f.Pagination.Params().Merge(Params{
		"politician_id":    filterValue(f.PoliticianID),
		"contributor_name": filterValue(f.ContributorName),
		"contributor_type": filterValue(f.ContributorType),
		"min_amount":       f.MinAmount,
		"max_amount":       f.MaxAmount,
		"from_date":        f.FromDate,
		"to_date":          f.ToDate,
	})
}
