/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"testing"

	"framescript/internal/domain"
)

func TestTextShapes(t *testing.T) {
	d := domain.Diagram{Text: []domain.TextBox{
		{ID: "a", Content: "one\ntwo\nthree"},
		{ID: "b", Content: "single"},
		{ID: "c", Content: ""},
	}}
	shapes := TextShapes(d)
	if shapes["a"] != 3 {
		t.Fatalf("shape of a = %d, want 3", shapes["a"])
	}
	if shapes["b"] != 1 {
		t.Fatalf("shape of b = %d, want 1", shapes["b"])
	}
	// empty content is a single empty line
	if shapes["c"] != 1 {
		t.Fatalf("shape of c = %d, want 1", shapes["c"])
	}
}

func TestTextShapesDuplicateIDLastWins(t *testing.T) {
	d := domain.Diagram{Text: []domain.TextBox{
		{ID: "a", Content: "one"},
		{ID: "a", Content: "one\ntwo"},
	}}
	if got := TextShapes(d)["a"]; got != 2 {
		t.Fatalf("shape of duplicated a = %d, want 2 (last wins)", got)
	}
}
