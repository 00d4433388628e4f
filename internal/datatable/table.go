/*
 * Table - type-erased view of a collection.
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

import "context"

// Snapshot is the serializable view of a collection.
type Snapshot struct {
	Endpoint      string  `json:"endpoint"`
	Items         any     `json:"items"`
	Total         int     `json:"total"`
	Loading       bool    `json:"loading"`
	Error         string  `json:"error,omitempty"`
	Options       Options `json:"options"`
	ParamsEnabled bool    `json:"paramsEnabled"`
}

// Table is implemented by every Collection regardless of its item type.
type Table interface {
	Endpoint() string
	Attach(ctx context.Context)
	FetchItems(ctx context.Context)
	UpdateOptions(patch Patch)
	Wait()
	Snapshot() Snapshot
}

// Snapshot returns the current state and view parameters.
func (c *Collection[T]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Endpoint:      c.endpoint,
		Items:         c.state.Items,
		Total:         c.state.Total,
		Loading:       c.state.Loading,
		Options:       c.options.clone(),
		ParamsEnabled: c.paramsEnabled,
	}
	if c.state.Err != nil {
		s.Error = c.state.Err.Error()
	}
	return s
}

var _ Table = (*Collection[map[string]any])(nil)
