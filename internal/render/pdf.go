/*
 * PDF - PDF export of the medication list and the dashboard.
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
	"time"

	"sihealth-console/internal/inventory"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Helvetica"
	pdfMargin     = 14.0
	pdfRowHeight  = 7.0
	pdfTitleSize  = 16.0
	pdfHeaderSize = 10.0
	pdfBodySize   = 9.0
	ellipsis      = "..."
)

// Table colors.
var (
	headerFill = [3]int{41, 128, 185}
	stripeFill = [3]int{245, 245, 245}
)

// pdfDocument is a portrait A4 document with striped tables. Table headers
// are repeated after each page break.
type pdfDocument struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFDocument(title string, generatedAt time.Time) *pdfDocument {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCreationDate(generatedAt)
	pdf.SetCreator("sihealth-console", true)
	pdf.SetTitle(title, true)
	pdf.AliasNbPages("")

	d := &pdfDocument{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont(pdfFont, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, d.tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", pdfTitleSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", pdfBodySize)
	pdf.CellFormat(0, 6, d.tr("Gerado em "+generatedAt.Format(inventory.DisplayTimeLayout)), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	return d
}

// usableWidth returns the page width between the margins.
func (d *pdfDocument) usableWidth() float64 {
	pageW, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return pageW - left - right
}

// fits returns true if h more millimeters fit in the current page.
func (d *pdfDocument) fits(h float64) bool {
	_, pageH := d.pdf.GetPageSize()
	_, _, _, bottom := d.pdf.GetMargins()
	return d.pdf.GetY()+h <= pageH-bottom
}

// fit translates text to the core font encoding and shortens it with an
// ellipsis until it fits in width w. The translated text is single-byte.
func (d *pdfDocument) fit(text string, w float64) string {
	text = d.tr(text)
	limit := w - 2
	if d.pdf.GetStringWidth(text) <= limit {
		return text
	}
	b := []byte(text)
	for len(b) > 0 && d.pdf.GetStringWidth(string(b)+ellipsis) > limit {
		b = b[:len(b)-1]
	}
	return string(b) + ellipsis
}

// heading writes a section title, starting a new page if there is no room
// for the title and the first rows.
func (d *pdfDocument) heading(text string) {
	if !d.fits(8 + 3*pdfRowHeight) {
		d.pdf.AddPage()
	}
	d.pdf.Ln(3)
	d.pdf.SetFont(pdfFont, "B", 12)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
}

// columnWidths scales the relative weights to the usable width.
func (d *pdfDocument) columnWidths(weights []float64) []float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	usable := d.usableWidth()
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * w / total
	}
	return widths
}

func (d *pdfDocument) tableHeader(headers []string, widths []float64) {
	d.pdf.SetFont(pdfFont, "B", pdfHeaderSize)
	d.pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	d.pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		d.pdf.CellFormat(widths[i], pdfRowHeight, d.fit(h, widths[i]), "", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
}

// table writes a striped table. emptyText is written in place of the rows
// when there are none.
func (d *pdfDocument) table(headers []string, weights []float64, rows [][]string, emptyText string) {
	widths := d.columnWidths(weights)
	d.tableHeader(headers, widths)

	d.pdf.SetFont(pdfFont, "", pdfBodySize)
	d.pdf.SetTextColor(0, 0, 0)
	if len(rows) == 0 {
		d.pdf.CellFormat(d.usableWidth(), pdfRowHeight, d.tr(emptyText), "", 1, "C", false, 0, "")
		return
	}
	for n, row := range rows {
		if !d.fits(pdfRowHeight) {
			d.pdf.AddPage()
			d.tableHeader(headers, widths)
			d.pdf.SetFont(pdfFont, "", pdfBodySize)
			d.pdf.SetTextColor(0, 0, 0)
		}
		fill := n%2 == 1
		d.pdf.SetFillColor(stripeFill[0], stripeFill[1], stripeFill[2])
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], pdfRowHeight, d.fit(cell, widths[i]), "", 0, "L", fill, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *pdfDocument) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("cannot write PDF: %w", err)
	}
	return nil
}

// MedicationsPDF writes the medication list as a PDF document.
func MedicationsPDF(w io.Writer, items []inventory.Medication, generatedAt time.Time) error {
	d := newPDFDocument("Lista de medicamentos", generatedAt)
	d.pdf.SetFont(pdfFont, "", pdfBodySize)
	d.pdf.CellFormat(0, 6, d.tr(inventory.StatusLine(len(items))), "", 1, "L", false, 0, "")

	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, medicationCells(m))
	}
	d.table(medicationHeaders, []float64{3, 2, 3, 1.5, 2, 2.2}, rows, inventory.EmptyMedicationsMessage)
	return d.output(w)
}

// DashboardPDF writes the dashboard summary as a PDF document.
func DashboardPDF(w io.Writer, s *inventory.DashboardSummary, generatedAt time.Time) error {
	d := newPDFDocument("Dashboard de estoque", generatedAt)

	kpiRows := [][]string{}
	for _, k := range KPIs(s.Metrics) {
		kpiRows = append(kpiRows, []string{k.Label, strconv.Itoa(k.Value)})
	}
	d.heading("Indicadores")
	d.table([]string{"Indicador", "Valor"}, []float64{4, 1}, kpiRows, "")

	topRows := [][]string{}
	for _, m := range s.TopMedications {
		topRows = append(topRows, []string{m.Name, strconv.Itoa(m.Quantity)})
	}
	d.heading("Medicamentos mais retirados")
	d.table([]string{"Medicamento", "Saídas"}, []float64{4, 1}, topRows, "Nenhum item.")

	monthRows := [][]string{}
	for _, m := range s.DispensationsByMonth {
		monthRows = append(monthRows, []string{MonthLabel(m.Month), strconv.Itoa(m.Quantity)})
	}
	d.heading("Dispensações por mês")
	d.table([]string{"Mês", "Quantidade"}, []float64{4, 1}, monthRows, "Nenhum item.")

	criticalWeights := []float64{3, 1.5, 1, 1.5, 1.5}
	d.heading("Próximos a vencer")
	d.table(criticalHeaders, criticalWeights, criticalRows(s.NearExpiry), "Nenhum item.")
	d.heading("Baixa quantidade")
	d.table(criticalHeaders, criticalWeights, criticalRows(s.LowStock), "Nenhum item.")

	return d.output(w)
}

func criticalRows(items []inventory.CriticalItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, criticalCells(item))
	}
	return rows
}
