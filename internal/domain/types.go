/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for framescript: the diagram document
// supplied by the loader and the presence matrix produced by the script
// pipeline. Structures serialize to human-readable JSON.

// Diagram is the external input to the conversion: the visual objects of one
// diagram plus its visibility script. The converter only reads it.
type Diagram struct {
	Text     []TextBox       `json:"text"`
	Images   []ImageObject   `json:"image"`
	Formulas []FormulaObject `json:"katex"`
	Script   string          `json:"script,omitempty"`
}

// TextBox is a multi-line text object. Each line of Content is one atomic,
// independently addressable cell; the number of lines is the box's shape.
type TextBox struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ImageObject is an image placed on the diagram. Renderer-specific fields are
// kept only so round-tripping the document preserves them; the converter uses
// the ID alone.
type ImageObject struct {
	ID     string  `json:"id"`
	Path   string  `json:"path,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// FormulaObject is a KaTeX formula block. As with images, only the ID matters
// for visibility.
type FormulaObject struct {
	ID  string `json:"id"`
	TeX string `json:"tex,omitempty"`
}

// TextBoxIDs returns the ids of all text boxes in diagram order.
func (d Diagram) TextBoxIDs() []string {
	ids := make([]string, 0, len(d.Text))
	for _, tb := range d.Text {
		ids = append(ids, tb.ID)
	}
	return ids
}

// NonTextIDs returns the ids of all image and formula objects in diagram
// order. These objects are already atomic for visibility purposes.
func (d Diagram) NonTextIDs() []string {
	ids := make([]string, 0, len(d.Images)+len(d.Formulas))
	for _, im := range d.Images {
		ids = append(ids, im.ID)
	}
	for _, f := range d.Formulas {
		ids = append(ids, f.ID)
	}
	return ids
}

// Matrix is the frame-by-object presence table: rows are frames 0..NFrame
// (frame 0 is reserved and never assigned by the script), columns are atomic
// object ids in first-seen order, and each cell is 1 when the object is
// visible in that frame.
type Matrix struct {
	NFrame  int      `json:"n_frame"`
	Objects []string `json:"objects"`
	Cells   [][]int  `json:"cells"` // Cells[frame][column]

	colIndex map[string]int
}

// NewMatrix allocates a zeroed matrix with nFrame+1 rows and one column per
// object id, preserving the given column order.
func NewMatrix(nFrame int, objects []string) *Matrix {
	m := &Matrix{
		NFrame:  nFrame,
		Objects: append([]string(nil), objects...),
		Cells:   make([][]int, nFrame+1),
	}
	for i := range m.Cells {
		m.Cells[i] = make([]int, len(m.Objects))
	}
	m.reindex()
	return m
}

func (m *Matrix) reindex() {
	m.colIndex = make(map[string]int, len(m.Objects))
	for i, id := range m.Objects {
		m.colIndex[id] = i
	}
}

// Rows returns the number of rows (NFrame + 1, frames 0..NFrame).
func (m *Matrix) Rows() int { return m.NFrame + 1 }

// Columns returns the column ids in order.
func (m *Matrix) Columns() []string { return m.Objects }

// Set marks object id visible (v=1) or hidden (v=0) in the given frame.
// Unknown ids and out-of-range frames are ignored; validation happens before
// assembly.
func (m *Matrix) Set(frame int, id string, v int) {
	if frame < 0 || frame >= len(m.Cells) {
		return
	}
	if m.colIndex == nil {
		m.reindex()
	}
	col, ok := m.colIndex[id]
	if !ok {
		return
	}
	m.Cells[frame][col] = v
}

// Visible reports whether object id is visible in the given frame.
func (m *Matrix) Visible(frame int, id string) bool {
	if frame < 0 || frame >= len(m.Cells) {
		return false
	}
	if m.colIndex == nil {
		m.reindex()
	}
	col, ok := m.colIndex[id]
	if !ok {
		return false
	}
	return m.Cells[frame][col] == 1
}

// Row returns the cell values of one frame row, or nil when out of range.
func (m *Matrix) Row(frame int) []int {
	if frame < 0 || frame >= len(m.Cells) {
		return nil
	}
	return m.Cells[frame]
}
