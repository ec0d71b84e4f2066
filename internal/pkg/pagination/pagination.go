package pagination

import (
	"net/http"
	"strconv"

	"github.com/cmz-api/internal/domain"
)

// Page size caps by endpoint class.
const (
	DefaultPageSize = 50
	MaxEntityList   = 200
	MaxLogList      = 1000
)

// Params is a validated page request.
type Params struct {
	Page     int
	PageSize int
}

// Parse reads page/pageSize query parameters and validates them against the
// given cap. page must be >= 1; pageSize must be within [1, maxPageSize].
// Non-integer or out-of-range values are reported as field-keyed violations.
func Parse(r *http.Request, maxPageSize int) (Params, error) {
	p := Params{Page: 1, PageSize: DefaultPageSize}
	verr := domain.NewValidationError()

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add("page", "must be an integer")
		case n < 1:
			verr.Add("page", "must be >= 1")
		default:
			p.Page = n
		}
	}

	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			verr.Add("pageSize", "must be an integer")
		case n < 1:
			verr.Add("pageSize", "must be >= 1")
		case n > maxPageSize:
			verr.Add("pageSize", "must be <= "+strconv.Itoa(maxPageSize))
		default:
			p.PageSize = n
		}
	}

	if err := verr.Err(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Slice applies the page window to a fully materialized list and returns the
// window plus the total item count.
func Slice[T any](items []T, p Params) ([]T, int) {
	total := len(items)
	start := (p.Page - 1) * p.PageSize
	if start >= total {
		return []T{}, total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return items[start:end], total
}

// TotalPages computes the number of pages for a total at the given page size.
// An empty result still has one page.
func TotalPages(total, pageSize int) int {
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
