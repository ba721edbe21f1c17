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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"framescript/internal/domain"
)

// PNGOptions controls the matrix grid visualization.
type PNGOptions struct {
	CellSize int // square cell edge in pixels; default 16
}

const (
	pngMarginLeft = 36 // room for frame labels
	pngMarginTop  = 20 // room for column numbers
	legendLine    = 14 // per-object legend row height
)

// ExportPNG renders the matrix as a grid image: one row per frame 0..n_frame,
// one column per object, filled cells marking presence, with a legend of
// object ids beneath.
func ExportPNG(m *domain.Matrix, outPath string, opt PNGOptions) error {
	if m == nil {
		return fmt.Errorf("matrix is nil")
	}
	cell := opt.CellSize
	if cell <= 0 {
		cell = 16
	}

	cols := len(m.Columns())
	gridW := cols * cell
	gridH := m.Rows() * cell
	width := pngMarginLeft + gridW + 8
	if width < 220 {
		width = 220
	}
	height := pngMarginTop + gridH + 10 + len(m.Columns())*legendLine + 6

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	gray := color.RGBA{150, 150, 150, 255}
	dark := color.RGBA{40, 40, 40, 255}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	label := func(x, y int, s string) {
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(s)
	}

	// column numbers along the top
	for c := 0; c < cols; c++ {
		label(pngMarginLeft+c*cell+2, pngMarginTop-6, fmt.Sprintf("%d", c+1))
	}
	// grid
	for frame := 0; frame < m.Rows(); frame++ {
		y0 := pngMarginTop + frame*cell
		label(4, y0+cell-4, fmt.Sprintf("%d", frame))
		for c, v := range m.Row(frame) {
			x0 := pngMarginLeft + c*cell
			r := image.Rect(x0, y0, x0+cell, y0+cell)
			if v == 1 {
				draw.Draw(img, r.Inset(1), image.NewUniform(dark), image.Point{}, draw.Src)
			}
			strokeRect(img, r, gray)
		}
	}
	// legend
	ly := pngMarginTop + gridH + legendLine
	for c, id := range m.Columns() {
		label(4, ly+c*legendLine, fmt.Sprintf("%d: %s", c+1, id))
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// strokeRect draws a 1px rectangle outline.
func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}
