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
	"strconv"
	"strings"

	"framescript/internal/domain"
)

// Desugar rewrites the tokenized script so that every directive names exactly
// one atomic object. Directives for image and formula objects pass through
// untouched, in script order, followed by the text-box expansions:
//
//   - "tbox"       expands to tbox[1] .. tbox[shape]
//   - "tbox[a:b]"  expands to tbox[a] .. tbox[b] inclusive; a missing start
//     defaults to cell 1, a missing stop to the box shape
//   - "tbox[k]"    is already atomic and passes through
//
// Every generated cell keeps the frame reference of the original directive.
// Object ids are matched exactly (the id, optionally followed by a bracketed
// suffix); anything else fails with ErrUnknownObject. Slice bounds outside
// 1..shape or reversed fail with ErrInvalidRange.
func Desugar(d domain.Diagram, dirs *Directives) (*Directives, error) {
	passThrough := make(map[string]bool)
	for _, id := range d.NonTextIDs() {
		passThrough[id] = true
	}
	shapes := TextShapes(d)

	out := NewDirectives()
	for _, ref := range dirs.Keys() {
		if passThrough[ref] {
			frameRef, _ := dirs.Get(ref)
			out.Set(ref, frameRef)
		}
	}
	for _, ref := range dirs.Keys() {
		if passThrough[ref] {
			continue
		}
		frameRef, _ := dirs.Get(ref)
		if err := expandText(out, shapes, ref, frameRef); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// expandText appends the atomic cell directives for one text-box reference.
func expandText(out *Directives, shapes map[string]int, ref, frameRef string) error {
	id, suffix := splitCellSuffix(ref)
	shape, ok := shapes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownObject, ref)
	}

	switch {
	case suffix == "":
		// whole box
		for cell := 1; cell <= shape; cell++ {
			out.Set(cellRef(id, cell), frameRef)
		}
	case strings.Contains(suffix, ":"):
		start, stop, err := parseSlice(id, suffix, shape)
		if err != nil {
			return err
		}
		for cell := start; cell <= stop; cell++ {
			out.Set(cellRef(id, cell), frameRef)
		}
	default:
		cell, err := strconv.Atoi(suffix)
		if err != nil {
			return fmt.Errorf("%w: %s[%s]: cell index is not a number", ErrInvalidRange, id, suffix)
		}
		if cell < 1 || cell > shape {
			return fmt.Errorf("%w: %s[%d]: cell outside 1..%d", ErrInvalidRange, id, cell, shape)
		}
		out.Set(cellRef(id, cell), frameRef)
	}
	return nil
}

// splitCellSuffix splits "id[...]" into the bare id and the bracket interior.
// A reference without brackets returns the whole string and "".
func splitCellSuffix(ref string) (id, suffix string) {
	open := strings.IndexByte(ref, '[')
	if open < 0 {
		return ref, ""
	}
	if !strings.HasSuffix(ref, "]") {
		// No closing bracket; treat the whole string as an id so the lookup
		// fails with a clear unknown-object error.
		return ref, ""
	}
	return ref[:open], ref[open+1 : len(ref)-1]
}

// parseSlice parses the interior of a "start:stop" slice. Both bounds are
// optional and inclusive.
func parseSlice(id, suffix string, shape int) (start, stop int, err error) {
	parts := strings.SplitN(suffix, ":", 2)
	start, stop = 1, shape
	if s := strings.TrimSpace(parts[0]); s != "" {
		start, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %s[%s]: slice start is not a number", ErrInvalidRange, id, suffix)
		}
	}
	if s := strings.TrimSpace(parts[1]); s != "" {
		stop, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %s[%s]: slice stop is not a number", ErrInvalidRange, id, suffix)
		}
	}
	if start > stop {
		return 0, 0, fmt.Errorf("%w: %s[%s]: start after stop", ErrInvalidRange, id, suffix)
	}
	if start < 1 || stop > shape {
		return 0, 0, fmt.Errorf("%w: %s[%s]: cells outside 1..%d", ErrInvalidRange, id, suffix, shape)
	}
	return start, stop, nil
}

func cellRef(id string, cell int) string {
	return id + "[" + strconv.Itoa(cell) + "]"
}
