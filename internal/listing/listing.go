// Package listing parses the public food listing parameters.
package listing

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/foodshare/foodshare/internal/store"
)

const (
	DefaultSort = "expire_date"
	MaxLimit    = 100
)

// Error describes a rejected listing parameter.
type Error struct {
	Param  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// Parse builds a paginated ListingQuery from URL parameters. Absent
// parameters take their defaults; malformed ones are rejected.
func Parse(v url.Values, defaultLimit int) (store.ListingQuery, error) {
	q := store.ListingQuery{
		Search:    strings.TrimSpace(v.Get("search")),
		Location:  strings.TrimSpace(v.Get("location")),
		SortField: DefaultSort,
		Page:      1,
		Limit:     defaultLimit,
		Paginate:  true,
	}

	if sort := v.Get("sort"); sort != "" {
		if !store.SortFields[sort] {
			return q, &Error{Param: "sort", Reason: fmt.Sprintf("unknown field %q", sort)}
		}
		q.SortField = sort
	}

	switch order := strings.ToLower(v.Get("order")); order {
	case "", "asc":
	case "desc":
		q.SortDesc = true
	default:
		return q, &Error{Param: "order", Reason: `must be "asc" or "desc"`}
	}

	var err error
	if q.Page, err = positiveInt(v, "page", 1); err != nil {
		return q, err
	}
	if q.Limit, err = positiveInt(v, "limit", defaultLimit); err != nil {
		return q, err
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return q, &Error{Param: "page", Reason: "out of range"}
	}
	return q, nil
}

// ParseSearch builds the unpaginated variant used by the full search.
func ParseSearch(v url.Values) (store.ListingQuery, error) {
	q, err := Parse(v, MaxLimit)
	q.Paginate = false
	q.Page = 1
	return q, err
}

// TotalPages returns how many pages of size limit hold total items.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

func positiveInt(v url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &Error{Param: key, Reason: "must be a number"}
	}
	if n < 1 {
		return 0, &Error{Param: key, Reason: "must be positive"}
	}
	return n, nil
}
