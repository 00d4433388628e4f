/*
 * CSV - CSV export of lists.
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
package render

import (
	"fmt"
	"io"

	"sihealth-console/internal/inventory"

	"github.com/gocarina/gocsv"
)

type medicationRow struct {
	Name             string `csv:"nome"`
	Manufacturer     string `csv:"fabricante"`
	ActiveIngredient string `csv:"principio_ativo"`
	Dosage           string `csv:"dosagem"`
	Category         string `csv:"categoria"`
	Stripe           string `csv:"tarja"`
	CreatedAt        string `csv:"criado_em"`
}

type batchRow struct {
	Number          string `csv:"numero_lote"`
	Medication      string `csv:"medicamento"`
	CurrentQuantity int    `csv:"quantidade_atual"`
	InitialQuantity int    `csv:"quantidade_inicial"`
	Expiry          string `csv:"data_validade"`
	Status          string `csv:"status"`
}

// WriteMedicationsCSV writes the medications as CSV with a header row.
func WriteMedicationsCSV(w io.Writer, items []inventory.Medication) error {
	rows := make([]*medicationRow, 0, len(items))
	for _, m := range items {
		rows = append(rows, &medicationRow{
			Name:             m.Name,
			Manufacturer:     m.Manufacturer,
			ActiveIngredient: m.ActiveIngredient,
			Dosage:           m.Dosage,
			Category:         m.Category,
			Stripe:           m.Stripe,
			CreatedAt:        inventory.FormatTimestamp(m.CreatedAt),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("cannot write medications CSV: %w", err)
	}
	return nil
}

// WriteBatchesCSV writes the batches as CSV with a header row.
func WriteBatchesCSV(w io.Writer, items []inventory.Batch) error {
	rows := make([]*batchRow, 0, len(items))
	for _, b := range items {
		rows = append(rows, &batchRow{
			Number:          b.Number,
			Medication:      b.MedicationName(),
			CurrentQuantity: b.CurrentQuantity,
			InitialQuantity: b.InitialQuantity,
			Expiry:          b.Expiry,
			Status:          b.Status,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("cannot write batches CSV: %w", err)
	}
	return nil
}
