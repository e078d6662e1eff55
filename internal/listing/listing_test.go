package listing

import (
	"errors"
	"net/url"
	"strconv"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	q, err := Parse(url.Values{}, 8)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.SortField != "expire_date" || q.SortDesc {
		t.Errorf("expected expire_date asc, got %s desc=%v", q.SortField, q.SortDesc)
	}
	if q.Page != 1 || q.Limit != 8 || !q.Paginate {
		t.Errorf("unexpected pagination %+v", q)
	}
	if q.Skip() != 0 {
		t.Errorf("expected skip 0, got %d", q.Skip())
	}
}

func TestParseSkip(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for _, limit := range []int{1, 6, 8, 25} {
			v := url.Values{}
			v.Set("page", strconv.Itoa(page))
			v.Set("limit", strconv.Itoa(limit))
			q, err := Parse(v, 8)
			if err != nil {
				t.Fatalf("Parse(page=%d, limit=%d): %v", page, limit, err)
			}
			if want := (page - 1) * limit; q.Skip() != want {
				t.Errorf("page=%d limit=%d: expected skip %d, got %d", page, limit, want, q.Skip())
			}
		}
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name  string
		query string
		param string
	}{
		{"non-numeric page", "page=abc", "page"},
		{"zero page", "page=0", "page"},
		{"negative limit", "limit=-3", "limit"},
		{"unknown sort", "sort=donators_email", "sort"},
		{"bad order", "order=sideways", "order"},
		{"page past int range", "page=9223372036854775807&limit=2", "page"},
		{"page whose skip wraps", "page=2305843009213693953&limit=4", "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := url.ParseQuery(tt.query)
			_, err := Parse(v, 8)
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if perr.Param != tt.param {
				t.Errorf("expected param %s, got %s", tt.param, perr.Param)
			}
		})
	}
}

func TestParseFilters(t *testing.T) {
	v, _ := url.ParseQuery("search=%20apple%20&location=Dhaka&sort=food_quantity&order=DESC&limit=500")
	q, err := Parse(v, 8)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if q.Search != "apple" || q.Location != "Dhaka" {
		t.Errorf("unexpected filters %q %q", q.Search, q.Location)
	}
	if q.SortField != "food_quantity" || !q.SortDesc {
		t.Errorf("unexpected sort %s desc=%v", q.SortField, q.SortDesc)
	}
	if q.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, q.Limit)
	}
}

func TestParseSearchIsUnpaginated(t *testing.T) {
	v, _ := url.ParseQuery("search=rice&page=3")
	q, err := ParseSearch(v)
	if err != nil {
		t.Fatalf("ParseSearch: %v", err)
	}
	if q.Paginate || q.Skip() != 0 {
		t.Errorf("expected unpaginated query, got %+v", q)
	}
}

func TestTotalPages(t *testing.T) {
	cases := map[[2]int64]int64{
		{0, 8}:  0,
		{1, 8}:  1,
		{8, 8}:  1,
		{9, 8}:  2,
		{22, 8}: 3,
	}
	for in, want := range cases {
		if got := TotalPages(in[0], int(in[1])); got != want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", in[0], in[1], got, want)
		}
	}
}
