/*
 * Medications - medication list and formatting helpers.
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
	"fmt"
	"strings"
	"time"

	"sihealth-console/internal/datatable"
)

// DisplayTimeLayout is the pt-BR date and time layout.
const DisplayTimeLayout = "02/01/2006 15:04"

// EmptyMedicationsMessage is shown when no medication matches.
const EmptyMedicationsMessage = "Nenhum medicamento encontrado."

// timestampLayouts are the accepted input layouts, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Medication is an item of the medication list.
type Medication struct {
	ID               int    `json:"id_medicamento,omitempty"`
	Name             string `json:"nome"`
	ActiveIngredient string `json:"principio_ativo,omitempty"`
	Stripe           string `json:"tarja,omitempty"`
	Manufacturer     string `json:"fabricante,omitempty"`
	Dosage           string `json:"dosagem,omitempty"`
	Category         string `json:"categoria,omitempty"`
	CreatedAt        string `json:"criado_em,omitempty"`
}

// NewMedicationsTable creates a collection over the medication list.
func (s *Service) NewMedicationsTable(initial datatable.Patch) *datatable.Collection[Medication] {
	return datatable.New[Medication](s.api, MedicationsEndpoint, initial)
}

// ListMedications fetches a single page of medications. Failures are
// reported through the Err field of the returned state.
func (s *Service) ListMedications(ctx context.Context, initial datatable.Patch) datatable.State[Medication] {
	table := s.NewMedicationsTable(initial)
	table.FetchItems(ctx)
	return table.State()
}

// FilterMedications returns the medications whose name, active ingredient or
// manufacturer contains the query, ignoring case. An empty query matches
// everything.
func FilterMedications(items []Medication, query string) []Medication {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	result := []Medication{}
	for _, m := range items {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.ActiveIngredient), q) ||
			strings.Contains(strings.ToLower(m.Manufacturer), q) {
			result = append(result, m)
		}
	}
	return result
}

// FormatTimestamp formats an ISO 8601 timestamp as "dd/mm/yyyy hh:mm". It
// returns "" for empty or invalid values.
func FormatTimestamp(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format(DisplayTimeLayout)
		}
	}
	return ""
}

// StatusLine returns the count line shown above the medication list.
func StatusLine(n int) string {
	return fmt.Sprintf("%d medicamento(s) encontrados", n)
}
