/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"testing"
)

func TestTokenizeBasicLines(t *testing.T) {
	input := "<1-2> im1\n<1> tbox\n\n  <3->   formula1  \n"
	dirs, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if got, want := dirs.Len(), 3; got != want {
		t.Fatalf("Len = %d, want %d", got, want)
	}
	wantKeys := []string{"im1", "tbox", "formula1"}
	for i, k := range dirs.Keys() {
		if k != wantKeys[i] {
			t.Fatalf("key %d = %q, want %q", i, k, wantKeys[i])
		}
	}
	if ref, _ := dirs.Get("formula1"); ref != "3-" {
		t.Fatalf("formula1 frame ref = %q, want %q", ref, "3-")
	}
}

func TestTokenizeDuplicateKeyLastWins(t *testing.T) {
	input := "<1> obj\n<2> other\n<4-5> obj\n"
	dirs, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if ref, _ := dirs.Get("obj"); ref != "4-5" {
		t.Fatalf("obj frame ref = %q, want last-wins %q", ref, "4-5")
	}
	// position stays first-seen
	if dirs.Keys()[0] != "obj" {
		t.Fatalf("obj should keep its first-seen position, keys = %v", dirs.Keys())
	}
}

func TestTokenizeMalformedLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"no brackets", "just text"},
		{"unterminated", "<1-2 im1"},
		{"empty frame ref", "<> im1"},
		{"missing object", "<1-2>"},
		{"missing object with space", "<1-2>   "},
		{"close before open", "1> im1 <2"},
		{"nested open", "<1<2> im1"},
		{"second pair", "<1> im1 <2> im2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Tokenize(tc.input); !errors.Is(err, ErrMalformedLine) {
				t.Fatalf("Tokenize(%q) err = %v, want ErrMalformedLine", tc.input, err)
			}
		})
	}
}

func TestDirectivesRenderCanonicalForm(t *testing.T) {
	dirs := NewDirectives()
	dirs.Set("im1", "1-2")
	dirs.Set("t[1]", "1")
	if got, want := dirs.Render(), "<1-2> im1\n<1> t[1]"; got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
	// rendered output must tokenize back to the same directives
	back, err := Tokenize(dirs.Render())
	if err != nil {
		t.Fatalf("Tokenize(Render) error: %v", err)
	}
	if back.Len() != dirs.Len() {
		t.Fatalf("round trip lost directives: %d != %d", back.Len(), dirs.Len())
	}
}
