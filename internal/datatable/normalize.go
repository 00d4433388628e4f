/*
 * Normalize - converts the accepted response shapes into a page of items.
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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownShape is returned when the body is valid JSON but matches none of
// the accepted shapes.
var ErrUnknownShape = errors.New("response body matches no known list shape")

// listFields are the wrapper fields checked, in order.
var listFields = []string{"records", "data"}

// Page is a normalized response: the items of the current page and the total
// number of matching items across all pages.
type Page[T any] struct {
	Items []T
	Total int
}

// emptyPage returns a page with no items.
func emptyPage[T any]() Page[T] {
	return Page[T]{Items: []T{}, Total: 0}
}

// isArray returns true if the raw JSON value is an array.
func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// decodeItems decodes a JSON array into a non-nil slice.
func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	items := []T{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("cannot decode items: %w", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// decodeTotal reads the optional total field. The second return value is
// false if the field is absent or null.
func decodeTotal(obj map[string]json.RawMessage) (int, bool, error) {
	raw, ok := obj["total"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return 0, false, nil
	}
	var total float64
	if err := json.Unmarshal(raw, &total); err != nil {
		return 0, false, fmt.Errorf("cannot decode total: %w", err)
	}
	if total < 0 {
		total = 0
	}
	return int(total), true, nil
}

// Normalize converts a response body into a page. The accepted shapes are
// checked in order:
//
//   - a bare array: all of it is the page, total is its length;
//   - an object with a "records" array;
//   - an object with a "data" array.
//
// For the wrapped shapes the "total" field is used when present, otherwise
// the length of the array. Anything else yields an empty page together with
// ErrUnknownShape; malformed JSON yields an empty page and the parse error.
func Normalize[T any](body []byte) (Page[T], error) {
	if isArray(body) {
		items, err := decodeItems[T](body)
		if err != nil {
			return emptyPage[T](), err
		}
		return Page[T]{Items: items, Total: len(items)}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || len(bytes.TrimSpace(body)) == 0 {
			return emptyPage[T](), fmt.Errorf("malformed response body: %w", err)
		}
		// Valid JSON that is neither an array nor an object.
		return emptyPage[T](), ErrUnknownShape
	}

	for _, field := range listFields {
		raw, ok := obj[field]
		if !ok || !isArray(raw) {
			continue
		}
		items, err := decodeItems[T](raw)
		if err != nil {
			return emptyPage[T](), err
		}
		total, found, err := decodeTotal(obj)
		if err != nil {
			return emptyPage[T](), err
		}
		if !found {
			total = len(items)
		}
		return Page[T]{Items: items, Total: total}, nil
	}

	return emptyPage[T](), ErrUnknownShape
}
