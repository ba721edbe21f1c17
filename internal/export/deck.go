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
	"html/template"
	"os"
	"path/filepath"

	"framescript/internal/domain"
)

// DeckOptions controls the reveal.js deck skeleton.
type DeckOptions struct {
	Title string
	// RevealBase is the base URL for reveal.js assets; the public CDN by default.
	RevealBase string
}

const defaultRevealBase = "https://cdn.jsdelivr.net/npm/reveal.js@4"

// frameView is the per-slide template payload.
type frameView struct {
	Frame   int
	Objects []string
}

var deckTmpl = template.Must(template.New("deck").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="{{.RevealBase}}/dist/reveal.css">
<link rel="stylesheet" href="{{.RevealBase}}/dist/theme/white.css">
</head>
<body>
<div class="reveal">
<div class="slides">
{{- range .Frames}}
<section data-frame="{{.Frame}}">
<h2>Frame {{.Frame}}</h2>
<ul>
{{- range .Objects}}
<li data-object="{{.}}">{{.}}</li>
{{- end}}
</ul>
</section>
{{- end}}
</div>
</div>
<script src="{{.RevealBase}}/dist/reveal.js"></script>
<script>Reveal.initialize();</script>
</body>
</html>
`))

// ExportDeck writes a reveal.js slide skeleton with one section per frame
// 1..n_frame, each listing the atomic objects visible in that frame. The
// reserved frame 0 is not rendered; it never carries objects.
func ExportDeck(m *domain.Matrix, outPath string, opt DeckOptions) error {
	if m == nil {
		return fmt.Errorf("matrix is nil")
	}
	if opt.Title == "" {
		opt.Title = "framescript deck"
	}
	if opt.RevealBase == "" {
		opt.RevealBase = defaultRevealBase
	}

	frames := make([]frameView, 0, m.NFrame)
	for f := 1; f <= m.NFrame; f++ {
		fv := frameView{Frame: f}
		for _, id := range m.Columns() {
			if m.Visible(f, id) {
				fv.Objects = append(fv.Objects, id)
			}
		}
		frames = append(frames, fv)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	defer f.Close()

	data := struct {
		Title      string
		RevealBase string
		Frames     []frameView
	}{opt.Title, opt.RevealBase, frames}
	if err := deckTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render deck: %w", err)
	}
	return nil
}
