package types

import "fmt"

// Page is the envelope returned by every list endpoint.
// Items are kept in the order sent by the server.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`  // 1-indexed
	Size  int `json:"size"`  // requested page size
	Pages int `json:"pages"` // ceil(total/size)
}

// Validate checks the envelope invariants:
// len(items) <= size, pages = ceil(total/size), and 1 <= page <= pages when total > 0.
func (p *Page[T]) Validate() error {
	if p.Size > 0 && len(p.Items) > p.Size {
		return fmt.Errorf("page holds %d items but size is %d", len(p.Items), p.Size)
	}
	if p.Size > 0 && p.Pages != PageCount(p.Total, p.Size) {
		return fmt.Errorf("%d pages reported for %d records of %d", p.Pages, p.Total, p.Size)
	}
	if p.Total > 0 && (p.Page < 1 || p.Page > p.Pages) {
		return fmt.Errorf("page %d outside 1..%d", p.Page, p.Pages)
	}
	return nil
}

func (p *Page[T]) Empty() bool {
	return len(p.Items) == 0
}

func (p *Page[T]) HasNext() bool {
	return p.Page < p.Pages
}

func (p *Page[T]) HasPrevious() bool {
	return p.Page > 1
}

// PageCount returns ceil(total/size), the value the server is expected to send in Pages
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
