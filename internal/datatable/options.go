/*
 * Options - view parameters of a server-paged collection.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package datatable

import (
	"encoding/json"
	"net/url"
	"slices"
	"strconv"
)

const (
	// DefaultPage is the first page, pages are 1-based.
	DefaultPage = 1
	// DefaultItemsPerPage is the page size used when none is given.
	DefaultItemsPerPage = 10

	// Sort directions.
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortItem is a single sort criterion. The position in Options.SortBy is its
// priority.
type SortItem struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Options contains the view parameters sent to the backend.
type Options struct {
	Page         int        `json:"page"`
	ItemsPerPage int        `json:"itemsPerPage"`
	SortBy       []SortItem `json:"sortBy"`
	Search       string     `json:"search"`
}

// DefaultOptions returns the options used when the caller does not override
// them.
func DefaultOptions() Options {
	return Options{
		Page:         DefaultPage,
		ItemsPerPage: DefaultItemsPerPage,
		SortBy:       []SortItem{},
	}
}

// Values encodes the options as query parameters. The sort criteria are sent
// as a JSON array.
func (o Options) Values() url.Values {
	sortBy := o.SortBy
	if sortBy == nil {
		sortBy = []SortItem{}
	}
	// Marshalling a slice of string-only structs cannot fail.
	encodedSort, _ := json.Marshal(sortBy)
	return url.Values{
		"page":         {strconv.Itoa(o.Page)},
		"itemsPerPage": {strconv.Itoa(o.ItemsPerPage)},
		"sortBy":       {string(encodedSort)},
		"search":       {o.Search},
	}
}

// clone returns a deep copy of the options.
func (o Options) clone() Options {
	c := o
	if o.SortBy != nil {
		c.SortBy = slices.Clone(o.SortBy)
	}
	return c
}

// equal compares two option sets field by field.
func (o Options) equal(other Options) bool {
	return o.Page == other.Page &&
		o.ItemsPerPage == other.ItemsPerPage &&
		o.Search == other.Search &&
		slices.Equal(o.SortBy, other.SortBy)
}

// Patch is a partial Options. Nil fields are left untouched when the patch
// is merged.
type Patch struct {
	Page         *int        `json:"page,omitempty"`
	ItemsPerPage *int        `json:"itemsPerPage,omitempty"`
	SortBy       *[]SortItem `json:"sortBy,omitempty"`
	Search       *string     `json:"search,omitempty"`
}

// WithPage returns a copy of the patch that sets the page.
func (p Patch) WithPage(page int) Patch {
	p.Page = &page
	return p
}

// WithItemsPerPage returns a copy of the patch that sets the page size.
func (p Patch) WithItemsPerPage(n int) Patch {
	p.ItemsPerPage = &n
	return p
}

// WithSortBy returns a copy of the patch that replaces the sort criteria.
func (p Patch) WithSortBy(items ...SortItem) Patch {
	sortBy := append([]SortItem{}, items...)
	p.SortBy = &sortBy
	return p
}

// WithSearch returns a copy of the patch that sets the search text.
func (p Patch) WithSearch(search string) Patch {
	p.Search = &search
	return p
}

// IsEmpty returns true if the patch does not set any field.
func (p Patch) IsEmpty() bool {
	return p.Page == nil && p.ItemsPerPage == nil && p.SortBy == nil && p.Search == nil
}

// applyTo merges the patch into the given options and returns the result.
// Non-positive page numbers and page sizes fall back to the defaults.
func (p Patch) applyTo(o Options) Options {
	r := o.clone()
	if p.Page != nil {
		r.Page = *p.Page
		if r.Page < 1 {
			r.Page = DefaultPage
		}
	}
	if p.ItemsPerPage != nil {
		r.ItemsPerPage = *p.ItemsPerPage
		if r.ItemsPerPage < 1 {
			r.ItemsPerPage = DefaultItemsPerPage
		}
	}
	if p.SortBy != nil {
		r.SortBy = append([]SortItem{}, (*p.SortBy)...)
	}
	if p.Search != nil {
		r.Search = *p.Search
	}
	return r
}
