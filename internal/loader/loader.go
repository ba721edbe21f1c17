/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package loader reads the diagram input document from disk and prepares it
// for conversion: it validates the JSON shape against an embedded schema,
// extracts the diagram objects and the visibility script, and normalizes
// HTML-entity escaped angle brackets back to the literal script markers.
package loader

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"framescript/internal/domain"
)

//go:embed diagram.schema.json
var schemaBytes []byte

// Document is the on-disk input shape: the object arrays plus a diagram
// array whose first entry carries the visibility script.
type Document struct {
	Diagram  []DiagramEntry         `json:"diagram"`
	Text     []domain.TextBox       `json:"text"`
	Images   []domain.ImageObject   `json:"image"`
	Formulas []domain.FormulaObject `json:"katex"`
}

// DiagramEntry carries per-diagram data; only the script is used here.
type DiagramEntry struct {
	Script string `json:"script"`
}

// Load reads and parses the input document at path and returns the diagram
// together with its preprocessed script. The script has entity escapes
// already normalized and is ready for the converter.
func Load(path string) (domain.Diagram, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Diagram{}, "", fmt.Errorf("read input: %w", err)
	}
	return Parse(data)
}

// Parse validates and decodes an input document from memory.
func Parse(data []byte) (domain.Diagram, string, error) {
	if err := ValidateDocument(data); err != nil {
		return domain.Diagram{}, "", err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Diagram{}, "", fmt.Errorf("parse input: %w", err)
	}
	d := domain.Diagram{Text: doc.Text, Images: doc.Images, Formulas: doc.Formulas}
	scriptText := ""
	if len(doc.Diagram) > 0 {
		scriptText = Unescape(doc.Diagram[0].Script)
		d.Script = scriptText
	}
	return d, scriptText, nil
}

// Unescape replaces HTML-entity escaped script markers ("&lt;", "&gt;") with
// literal angle brackets. Editors that store the script inside HTML-ish
// documents escape the markers; the converter expects them literal.
func Unescape(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return s
}

// ValidateDocument checks the raw document bytes against the embedded JSON
// schema. Semantic validation (known ids, frame bounds) is left to the
// converter itself.
func ValidateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	docLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("input document does not conform to schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}
