/*
 * Dashboard - terminal rendering of the dashboard.
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
	"strconv"
	"strings"
	"time"

	"sihealth-console/internal/inventory"
)

var monthLabels = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

var criticalHeaders = []string{"Medicamento", "Lote", "Qtd.", "Validade", "Status"}

// KPI is a dashboard card.
type KPI struct {
	Label string
	Value int
}

// KPIs returns the dashboard cards in display order.
func KPIs(m inventory.DashboardMetrics) []KPI {
	return []KPI{
		{Label: "Itens com baixo estoque", Value: m.LowStockItems},
		{Label: "Itens próximos do vencimento", Value: m.NearExpiryItems},
		{Label: "Total de itens em estoque", Value: m.TotalStockItems},
		{Label: "Dispensações no mês", Value: m.MonthlyDispensations},
	}
}

// MonthLabel converts a month number ("1" to "12") into its pt-BR
// abbreviation. Other values are returned unchanged.
func MonthLabel(month string) string {
	n, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || n < 1 || n > 12 {
		return month
	}
	return monthLabels[n-1]
}

// FormatDate formats a "YYYY-MM-DD" date as "dd/mm/yyyy". Other values are
// returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(inventory.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

// bar returns a bar proportional to value, at most width runes long.
func bar(value, peak, width int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := value * width / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

func criticalCells(item inventory.CriticalItem) []string {
	return []string{item.Name, item.Batch, strconv.Itoa(item.Quantity), FormatDate(item.Expiry), item.Status}
}

func writeCriticalTable(w io.Writer, title string, items []inventory.CriticalItem) error {
	if _, err := fmt.Fprintf(w, "\n%s\n", title); err != nil {
		return err
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Nenhum item.")
		return err
	}
	tw := newTabWriter(w)
	if err := writeRow(tw, criticalHeaders...); err != nil {
		return err
	}
	for _, item := range items {
		if err := writeRow(tw, criticalCells(item)...); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteDashboard writes the KPI cards, the charts as text bars and the
// alert tables.
func WriteDashboard(w io.Writer, s *inventory.DashboardSummary) error {
	tw := newTabWriter(w)
	for _, k := range KPIs(s.Metrics) {
		if err := writeRow(tw, k.Label, strconv.Itoa(k.Value)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nMedicamentos mais retirados"); err != nil {
		return err
	}
	peak := 0
	for _, m := range s.TopMedications {
		if m.Quantity > peak {
			peak = m.Quantity
		}
	}
	tw = newTabWriter(w)
	for _, m := range s.TopMedications {
		if err := writeRow(tw, m.Name, strconv.Itoa(m.Quantity), bar(m.Quantity, peak, 30)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "\nDispensações por mês"); err != nil {
		return err
	}
	peak = 0
	for _, m := range s.DispensationsByMonth {
		if m.Quantity > peak {
			peak = m.Quantity
		}
	}
	tw = newTabWriter(w)
	for _, m := range s.DispensationsByMonth {
		if err := writeRow(tw, MonthLabel(m.Month), strconv.Itoa(m.Quantity), bar(m.Quantity, peak, 30)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := writeCriticalTable(w, "Próximos a vencer", s.NearExpiry); err != nil {
		return err
	}
	return writeCriticalTable(w, "Baixa quantidade", s.LowStock)
}
