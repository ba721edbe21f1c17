/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"

	"framescript/internal/domain"
)

// Assemble builds the presence matrix from the per-object frame lists: rows
// 0..nFrame, one column per object in directive order, cell 1 where the
// object's frame list contains the row's frame. Frame indices outside
// 0..nFrame fail with ErrFrameOutOfRange rather than being dropped, since a
// silently omitted object would vanish from the whole presentation.
func Assemble(lists *FrameLists, nFrame int) (*domain.Matrix, error) {
	m := domain.NewMatrix(nFrame, lists.Keys())
	for _, id := range lists.Keys() {
		frames, _ := lists.Get(id)
		for _, f := range frames {
			if f < 0 || f > nFrame {
				return nil, fmt.Errorf("%w: %s in frame %d, matrix has 0..%d", ErrFrameOutOfRange, id, f, nFrame)
			}
			m.Set(f, id, 1)
		}
	}
	return m, nil
}

// Convert runs the full pipeline for one (diagram, script) pair: tokenize,
// count frames on the raw directives, desugar, expand frame lists, assemble.
// The script must already have literal angle brackets; entity unescaping is
// the loader's job.
func Convert(d domain.Diagram, scriptText string) (*domain.Matrix, error) {
	raw, err := Tokenize(scriptText)
	if err != nil {
		return nil, fmt.Errorf("tokenize script: %w", err)
	}
	nFrame, err := NFrames(raw)
	if err != nil {
		return nil, fmt.Errorf("count frames: %w", err)
	}
	flat, err := Desugar(d, raw)
	if err != nil {
		return nil, fmt.Errorf("desugar script: %w", err)
	}
	lists, err := BuildFrameLists(flat, nFrame)
	if err != nil {
		return nil, fmt.Errorf("expand frame lists: %w", err)
	}
	m, err := Assemble(lists, nFrame)
	if err != nil {
		return nil, fmt.Errorf("assemble matrix: %w", err)
	}
	return m, nil
}
