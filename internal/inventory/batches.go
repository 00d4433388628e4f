/*
 * Batches - stock batches list.
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

import "sihealth-console/internal/datatable"

// Batch status values computed by the backend.
const (
	BatchExpired      = "Vencido"
	BatchNearExpiry   = "Próx. Venc."
	BatchOK           = "OK"
	BatchLowStock     = "Baixo"
	defaultBatchLabel = "-"
)

// MedicationSummary is the medication embedded in a batch.
type MedicationSummary struct {
	ID               int    `json:"id_medicamento"`
	Name             string `json:"nome"`
	ActiveIngredient string `json:"principio_ativo,omitempty"`
	Stripe           string `json:"tarja,omitempty"`
}

// Batch is a stock batch of a medication.
type Batch struct {
	ID              int                `json:"id_lote"`
	MedicationID    int                `json:"id_medicamento"`
	Number          string             `json:"numero_lote"`
	BoxNumber       string             `json:"numero_caixa,omitempty"`
	InitialQuantity int                `json:"quantidade_inicial"`
	CurrentQuantity int                `json:"quantidade_atual"`
	Expiry          string             `json:"data_validade"`
	ManufacturedOn  string             `json:"data_fabricacao,omitempty"`
	Manufacturer    string             `json:"fabricante,omitempty"`
	Dosage          string             `json:"dosagem,omitempty"`
	Category        string             `json:"categoria,omitempty"`
	Status          string             `json:"status,omitempty"`
	CreatedAt       string             `json:"criado_em,omitempty"`
	Medication      *MedicationSummary `json:"medicamento,omitempty"`
}

// MedicationName returns the name of the batch's medication, or "-" if the
// backend did not embed it.
func (b Batch) MedicationName() string {
	if b.Medication == nil || b.Medication.Name == "" {
		return defaultBatchLabel
	}
	return b.Medication.Name
}

// NewBatchesTable creates a collection over the batch list.
func (s *Service) NewBatchesTable(initial datatable.Patch) *datatable.Collection[Batch] {
	return datatable.New[Batch](s.api, BatchesEndpoint, initial)
}
