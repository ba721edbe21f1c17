/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a presence matrix for downstream consumers: a
// reveal.js slide skeleton, CSV, a printable PDF report, and a PNG grid
// visualization. Exporters emit visibility structure only; drawing actual
// slide content is out of scope.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"framescript/internal/domain"
)

// ExportCSV writes the matrix as CSV: a header row with the object ids, then
// one row per frame 0..n_frame with the frame index in the first column.
func ExportCSV(m *domain.Matrix, outPath string) error {
	if m == nil {
		return fmt.Errorf("matrix is nil")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"frame"}, m.Columns()...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for frame := 0; frame < m.Rows(); frame++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(frame))
		for _, v := range m.Row(frame) {
			row = append(row, strconv.Itoa(v))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", frame, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
