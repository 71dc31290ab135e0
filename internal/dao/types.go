// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package dao

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/erptab/erptab/internal/model1"
)

var (
	// ErrRowNotFound is returned when a persisted row no longer exists.
	ErrRowNotFound = errors.New("row not found")

	// ErrReadOnly is returned when a source refuses writes.
	ErrReadOnly = errors.New("source is read-only")

	// ErrUnknownColumn is returned for columns outside the table spec.
	ErrUnknownColumn = errors.New("unknown column")
)

// SortOrder describes a server side sort.
type SortOrder struct {
	Column string
	Desc   bool
}

// Filter describes a server side filter. Text matches any searchable
// column; Columns holds per column substring matches.
type Filter struct {
	Text    string
	Columns map[string]string
}

// IsEmpty reports whether the filter selects everything.
func (f Filter) IsEmpty() bool {
	if strings.TrimSpace(f.Text) != "" {
		return false
	}
	for _, v := range f.Columns {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Equal compares two filters.
func (f Filter) Equal(o Filter) bool {
	return f.key() == o.key()
}

// String returns a display form of the filter.
func (f Filter) String() string {
	parts := make([]string, 0, len(f.Columns)+1)
	if t := strings.TrimSpace(f.Text); t != "" {
		parts = append(parts, t)
	}
	keys := make([]string, 0, len(f.Columns))
	for k := range f.Columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := strings.TrimSpace(f.Columns[k]); v != "" {
			parts = append(parts, k+":"+v)
		}
	}
	return strings.Join(parts, " ")
}

func (f Filter) key() string {
	return strings.ToLower(f.String())
}

// ParseFilter parses "free text col:value" input into a filter.
func ParseFilter(s string) Filter {
	return ParseFilterFor(s, nil)
}

// ParseFilterFor parses filter input, keeping col:value tokens only when
// known reports the column exists. Other tokens stay in the free text in
// input order. A nil known accepts every column.
func ParseFilterFor(s string, known func(string) bool) Filter {
	var (
		f    Filter
		text []string
	)
	for _, tok := range strings.Fields(s) {
		if k, v, ok := strings.Cut(tok, ":"); ok && k != "" && v != "" && (known == nil || known(k)) {
			if f.Columns == nil {
				f.Columns = make(map[string]string)
			}
			f.Columns[k] = v
			continue
		}
		text = append(text, tok)
	}
	f.Text = strings.Join(text, " ")
	return f
}

// Resolve folds column matches on columns known does not accept back into
// the free text.
func (f Filter) Resolve(known func(string) bool) Filter {
	var (
		cols  map[string]string
		extra []string
	)
	keys := make([]string, 0, len(f.Columns))
	for k := range f.Columns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := f.Columns[k]
		if known(k) {
			if cols == nil {
				cols = make(map[string]string, len(f.Columns))
			}
			cols[k] = v
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			extra = append(extra, k+":"+v)
		}
	}
	if len(extra) == 0 {
		return f
	}
	text := strings.TrimSpace(f.Text)
	if text != "" {
		extra = append([]string{text}, extra...)
	}

	return Filter{Text: strings.Join(extra, " "), Columns: cols}
}

// Query represents one page request.
type Query struct {
	Sort   SortOrder
	Filter Filter
	Offset int
	Limit  int
}

// ParseQuery builds an unsorted query from filter input.
func ParseQuery(filter string, offset, limit int) Query {
	return Query{
		Filter: ParseFilter(filter),
		Offset: offset,
		Limit:  limit,
	}
}

// Key returns a stable key identifying the query.
func (q Query) Key() string {
	dir := "asc"
	if q.Sort.Desc {
		dir = "desc"
	}
	return fmt.Sprintf("%s:%s|%s|%d:%d", q.Sort.Column, dir, q.Filter.key(), q.Offset, q.Limit)
}

// Page is one fetched page of rows plus the total match count.
type Page struct {
	Rows  model1.Rows
	Count int
}

// Lister fetches pages of rows.
type Lister interface {
	List(ctx context.Context, q Query) (Page, error)
}

// Persister writes a single cell.
type Persister interface {
	PersistCell(ctx context.Context, rowID, column string, value any) error
}

// Source combines listing and cell persistence.
type Source interface {
	Lister
	Persister
}

// Nuker provides row deletion.
type Nuker interface {
	Delete(ctx context.Context, ids []string) error
}

// Creator inserts new rows and returns their identity.
type Creator interface {
	Create(ctx context.Context, values map[string]any) (string, error)
}
