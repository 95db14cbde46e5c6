package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a field plus direction, written "field,asc" on the wire.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

func (s Sort) String() string {
	if s.Field == "" {
		return ""
	}
	dir := s.Direction
	if dir != Desc {
		dir = Asc
	}
	return s.Field + "," + string(dir)
}

// Toggle returns the sort after the user picks field: the same field flips
// direction, a new field starts ascending.
func (s Sort) Toggle(field string) Sort {
	if field == s.Field && s.Direction == Asc {
		return Sort{Field: field, Direction: Desc}
	}
	return Sort{Field: field, Direction: Asc}
}

// ParseSort reads "field" or "field,dir". Empty input yields fallback.
func ParseSort(raw string, fallback Sort) Sort {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	field, dir, _ := strings.Cut(raw, ",")
	s := Sort{Field: strings.TrimSpace(field), Direction: Asc}
	if strings.EqualFold(strings.TrimSpace(dir), string(Desc)) {
		s.Direction = Desc
	}
	return s
}

// Query is the parameter set of one load.
type Query struct {
	Page   int        `json:"page"`
	Size   int        `json:"size"`
	Sort   Sort       `json:"sort"`
	Filter url.Values `json:"filter,omitempty"`
}

// Values renders page, size and sort as the remote API's query string.
// Filter criteria are left to the source, which picks the endpoint.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if s := q.Sort.String(); s != "" {
		v.Set("sort", s)
	}
	return v
}

func (q Query) clone() Query {
	out := q
	if q.Filter != nil {
		out.Filter = make(url.Values, len(q.Filter))
		for k, vs := range q.Filter {
			out.Filter[k] = append([]string(nil), vs...)
		}
	}
	return out
}

// Page is one page of a remote collection. First and Last are derived from
// Number and TotalPages whenever a page is decoded or built.
type Page[T any] struct {
	Items         []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

type pageWire[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// SinglePage wraps a complete, unpaged list.
func SinglePage[T any](items []T) *Page[T] {
	p := &Page[T]{
		Items:         items,
		Size:          len(items),
		TotalElements: int64(len(items)),
	}
	if len(items) > 0 {
		p.TotalPages = 1
	}
	p.normalize()
	return p
}

// UnmarshalJSON accepts a paged object or a bare array.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode page items: %w", err)
		}
		*p = *SinglePage(items)
		return nil
	}

	var w pageWire[T]
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return fmt.Errorf("decode page: %w", err)
	}
	*p = Page[T]{
		Items:         w.Content,
		Number:        w.Number,
		Size:          w.Size,
		TotalPages:    w.TotalPages,
		TotalElements: w.TotalElements,
	}
	p.normalize()
	return nil
}

func (p *Page[T]) normalize() {
	if p.Items == nil {
		p.Items = []T{}
	}
	if p.Number < 0 {
		p.Number = 0
	}
	p.First = p.Number == 0
	p.Last = p.TotalPages == 0 || p.Number >= p.TotalPages-1
}

// IsEmpty reports a valid page with no items.
func (p *Page[T]) IsEmpty() bool {
	return p == nil || len(p.Items) == 0
}
