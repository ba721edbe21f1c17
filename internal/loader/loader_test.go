/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `{
  "diagram": [{"script": "&lt;1-2&gt; im1\n&lt;1&gt; t"}],
  "text": [{"id": "t", "content": "first\nsecond"}],
  "image": [{"id": "im1", "path": "img/one.png"}],
  "katex": []
}`

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	d, scriptText, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(d.Text) != 1 || d.Text[0].ID != "t" {
		t.Fatalf("unexpected text objects: %+v", d.Text)
	}
	if len(d.Images) != 1 || d.Images[0].ID != "im1" {
		t.Fatalf("unexpected image objects: %+v", d.Images)
	}
	if scriptText != "<1-2> im1\n<1> t" {
		t.Fatalf("script not unescaped: %q", scriptText)
	}
}

func TestUnescapeMarkers(t *testing.T) {
	in := "&lt;1-3&gt; box&lt;sic&gt;"
	if got, want := Unescape(in), "<1-3> box<sic>"; got != want {
		t.Fatalf("Unescape = %q, want %q", got, want)
	}
	// literal brackets stay untouched
	if got := Unescape("<1> a"); got != "<1> a" {
		t.Fatalf("Unescape altered literal brackets: %q", got)
	}
}

func TestParseRejectsBadShape(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"text missing id", `{"text": [{"content": "x"}]}`},
		{"image missing id", `{"image": [{"path": "x.png"}]}`},
		{"text id wrong type", `{"text": [{"id": 5, "content": "x"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := Parse([]byte(tc.doc)); err == nil {
				t.Fatalf("Parse accepted invalid document %s", tc.doc)
			} else if !strings.Contains(err.Error(), "schema") {
				t.Fatalf("expected schema error, got: %v", err)
			}
		})
	}
}

func TestParseEmptyArrays(t *testing.T) {
	d, scriptText, err := Parse([]byte(`{"diagram": [], "text": [], "image": [], "katex": []}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if scriptText != "" {
		t.Fatalf("expected empty script, got %q", scriptText)
	}
	if len(d.Text)+len(d.Images)+len(d.Formulas) != 0 {
		t.Fatalf("expected empty diagram, got %+v", d)
	}
}
