/*
 * Options - unit tests.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Options_Values(t *testing.T) {
	type testCase struct {
		name     string
		options  Options
		expected url.Values
	}

	run := func(t *testing.T, tc testCase) {
		assert.Equal(t, tc.expected, tc.options.Values())
	}

	testCases := []testCase{
		{
			name:    "defaults",
			options: DefaultOptions(),
			expected: url.Values{
				"page":         {"1"},
				"itemsPerPage": {"10"},
				"sortBy":       {"[]"},
				"search":       {""},
			},
		},
		{
			name: "nil sort is an empty array",
			options: Options{
				Page:         3,
				ItemsPerPage: 25,
				Search:       "dip",
			},
			expected: url.Values{
				"page":         {"3"},
				"itemsPerPage": {"25"},
				"sortBy":       {"[]"},
				"search":       {"dip"},
			},
		},
		{
			name: "sort order kept",
			options: Options{
				Page:         1,
				ItemsPerPage: 10,
				SortBy: []SortItem{
					{Field: "nome", Direction: SortAsc},
					{Field: "criado_em", Direction: SortDesc},
				},
			},
			expected: url.Values{
				"page":         {"1"},
				"itemsPerPage": {"10"},
				"sortBy":       {`[{"field":"nome","direction":"asc"},{"field":"criado_em","direction":"desc"}]`},
				"search":       {""},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Patch_applyTo(t *testing.T) {
	type testCase struct {
		name     string
		base     Options
		patch    Patch
		expected Options
	}

	run := func(t *testing.T, tc testCase) {
		actual := tc.patch.applyTo(tc.base)
		assert.Equal(t, tc.expected, actual)
	}

	base := Options{
		Page:         2,
		ItemsPerPage: 20,
		SortBy:       []SortItem{{Field: "nome", Direction: SortAsc}},
		Search:       "x",
	}

	testCases := []testCase{
		{
			name:     "empty patch keeps everything",
			base:     base,
			patch:    Patch{},
			expected: base,
		},
		{
			name:  "page only",
			base:  base,
			patch: Patch{}.WithPage(5),
			expected: Options{
				Page:         5,
				ItemsPerPage: 20,
				SortBy:       []SortItem{{Field: "nome", Direction: SortAsc}},
				Search:       "x",
			},
		},
		{
			name:  "clear sort and search",
			base:  base,
			patch: Patch{}.WithSortBy().WithSearch(""),
			expected: Options{
				Page:         2,
				ItemsPerPage: 20,
				SortBy:       []SortItem{},
				Search:       "",
			},
		},
		{
			name:  "non-positive values fall back to defaults",
			base:  base,
			patch: Patch{}.WithPage(0).WithItemsPerPage(-1),
			expected: Options{
				Page:         DefaultPage,
				ItemsPerPage: DefaultItemsPerPage,
				SortBy:       []SortItem{{Field: "nome", Direction: SortAsc}},
				Search:       "x",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Patch_applyTo_doesNotAlias(t *testing.T) {
	sortBy := []SortItem{{Field: "nome", Direction: SortAsc}}
	patch := Patch{SortBy: &sortBy}
	result := patch.applyTo(DefaultOptions())
	sortBy[0].Field = "changed"
	assert.Equal(t, "nome", result.SortBy[0].Field)
}

func Test_Patch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{}.WithSearch("").IsEmpty())
	assert.False(t, Patch{}.WithSortBy().IsEmpty())
}

func Test_Patch_unmarshal(t *testing.T) {
	var p Patch
	err := json.Unmarshal([]byte(`{"page":2,"sortBy":[],"search":""}`), &p)
	require.NoError(t, err)
	require.NotNil(t, p.Page)
	assert.Equal(t, 2, *p.Page)
	assert.Nil(t, p.ItemsPerPage)
	require.NotNil(t, p.SortBy)
	assert.Empty(t, *p.SortBy)
	require.NotNil(t, p.Search)
	assert.Equal(t, "", *p.Search)
}
