/*
 * Entries - stock entry registration.
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
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrInvalidEntry is returned when an entry fails validation before being
// sent.
var ErrInvalidEntry = errors.New("invalid stock entry")

// Entry is a stock entry for an existing batch.
type Entry struct {
	BatchID  int    `json:"id_lote"`
	Quantity int    `json:"quantidade"`
	UserID   int    `json:"id_usuario"`
	Supplier string `json:"fornecedor,omitempty"`
}

// Validate checks the entry fields.
func (e Entry) Validate() error {
	var problems []string
	if e.BatchID <= 0 {
		problems = append(problems, "id_lote must be positive")
	}
	if e.Quantity <= 0 {
		problems = append(problems, "quantidade must be positive")
	}
	if e.UserID <= 0 {
		problems = append(problems, "id_usuario must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidEntry, strings.Join(problems, ", "))
	}
	return nil
}

// RegisterEntry sends a stock entry and returns the backend response. API
// failures are returned as *api.APIError, carrying the backend detail.
func (s *Service) RegisterEntry(ctx context.Context, entry Entry) (map[string]any, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	entry.Supplier = strings.TrimSpace(entry.Supplier)

	result := map[string]any{}
	if err := s.api.PostJSON(ctx, entryEndpoint, entry, &result); err != nil {
		return nil, err
	}
	log.Infof("Registered entry of %d unit(s) for batch %d", entry.Quantity, entry.BatchID)
	return result, nil
}
