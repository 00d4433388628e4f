/*
 * Table - terminal rendering of lists.
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
	"strings"
	"text/tabwriter"

	"sihealth-console/internal/inventory"
)

// Column headers.
var (
	medicationHeaders = []string{"Nome", "Fabricante", "Princípio ativo", "Dosagem", "Categoria", "Criado em"}
	batchHeaders      = []string{"Lote", "Medicamento", "Qtd. atual", "Validade", "Status"}
)

// EmptyBatchesMessage is shown when there are no batches.
const EmptyBatchesMessage = "Nenhum lote encontrado."

// newTabWriter returns a tab writer with the console's column layout.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeRow writes a tab separated row.
func writeRow(w io.Writer, cells ...string) error {
	_, err := fmt.Fprintln(w, strings.Join(cells, "\t"))
	return err
}

// medicationCells returns the displayed cells of a medication.
func medicationCells(m inventory.Medication) []string {
	return []string{
		m.Name,
		m.Manufacturer,
		m.ActiveIngredient,
		m.Dosage,
		m.Category,
		inventory.FormatTimestamp(m.CreatedAt),
	}
}

// batchCells returns the displayed cells of a batch.
func batchCells(b inventory.Batch) []string {
	return []string{
		b.Number,
		b.MedicationName(),
		fmt.Sprintf("%d", b.CurrentQuantity),
		FormatDate(b.Expiry),
		b.Status,
	}
}

// WriteMedications writes the status line followed by the medication table,
// or the empty-state message when there is nothing to show. total is the
// number of matching medications across all pages.
func WriteMedications(w io.Writer, items []inventory.Medication, total int) error {
	if _, err := fmt.Fprintln(w, inventory.StatusLine(total)); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, inventory.EmptyMedicationsMessage)
		return err
	}

	tw := newTabWriter(w)
	if err := writeRow(tw, medicationHeaders...); err != nil {
		return err
	}
	for _, m := range items {
		if err := writeRow(tw, medicationCells(m)...); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteBatches writes the batch table.
func WriteBatches(w io.Writer, items []inventory.Batch, total int) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, EmptyBatchesMessage)
		return err
	}
	tw := newTabWriter(w)
	if err := writeRow(tw, batchHeaders...); err != nil {
		return err
	}
	for _, b := range items {
		if err := writeRow(tw, batchCells(b)...); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d de %d lote(s)\n", len(items), total)
	return err
}

// WriteUsers writes one line per user.
func WriteUsers(w io.Writer, users []inventory.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum usuário cadastrado.")
		return err
	}
	for _, u := range users {
		if _, err := fmt.Fprintln(w, u.String()); err != nil {
			return err
		}
	}
	return nil
}
