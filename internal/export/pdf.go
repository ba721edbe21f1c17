/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"framescript/internal/domain"
)

// PDFOptions controls the printable matrix report. Units are points.
// Built-in Helvetica keeps text vector without font embedding.
type PDFOptions struct {
	Title    string
	CellSize float64 // square cell edge; default 14pt
}

// ExportPDF writes the matrix as a one-table report: object ids as rotated
// column headers would need font transforms, so ids are listed as a legend
// and columns are numbered. Filled squares mark presence.
func ExportPDF(m *domain.Matrix, outPath string, opt PDFOptions) error {
	if m == nil {
		return fmt.Errorf("matrix is nil")
	}
	if opt.Title == "" {
		opt.Title = "Presence matrix"
	}
	cell := opt.CellSize
	if cell <= 0 {
		cell = 14
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(opt.Title, false)
	pdf.SetAuthor("framescript", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 20, opt.Title)
	pdf.Ln(28)

	pdf.SetFont("Helvetica", "", 9)
	left := pdf.GetX() + 40
	top := pdf.GetY() + cell

	// column numbers
	for c := range m.Columns() {
		pdf.Text(left+float64(c)*cell+cell/3, top-4, fmt.Sprintf("%d", c+1))
	}
	// grid with frame labels
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetFillColor(40, 40, 40)
	for frame := 0; frame < m.Rows(); frame++ {
		y := top + float64(frame)*cell
		pdf.Text(left-24, y+cell*0.7, fmt.Sprintf("%d", frame))
		for c, v := range m.Row(frame) {
			x := left + float64(c)*cell
			style := "D"
			if v == 1 {
				style = "FD"
			}
			pdf.Rect(x, y, cell, cell, style)
		}
	}

	// legend mapping column numbers to object ids
	pdf.SetY(top + float64(m.Rows())*cell + 16)
	pdf.SetFont("Helvetica", "", 10)
	for c, id := range m.Columns() {
		pdf.CellFormat(0, 13, fmt.Sprintf("%d: %s", c+1, id), "", 1, "L", false, 0, "")
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
