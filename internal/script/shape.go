/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"

	"framescript/internal/domain"
)

// TextShapes returns the number of atomic cells (lines) of every text box in
// the diagram. Content is split on newlines, so an empty content string still
// counts as one cell. Duplicate ids overwrite earlier entries (last-wins).
func TextShapes(d domain.Diagram) map[string]int {
	shapes := make(map[string]int, len(d.Text))
	for _, tb := range d.Text {
		shapes[tb.ID] = len(strings.Split(tb.Content, "\n"))
	}
	return shapes
}
