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
)

// FrameLists maps every atomic object to the ascending explicit list of
// frames it occupies, preserving directive order for matrix columns.
type FrameLists struct {
	keys  []string
	lists map[string][]int
}

// Keys returns the object ids in directive order.
func (f *FrameLists) Keys() []string { return f.keys }

// Get returns the frame list for an object id.
func (f *FrameLists) Get(id string) ([]int, bool) {
	l, ok := f.lists[id]
	return l, ok
}

// Len returns the number of objects.
func (f *FrameLists) Len() int { return len(f.keys) }

// NFrames computes the total frame count of the diagram from the raw,
// pre-desugared directives: the maximum endpoint across all frame
// references. An open reference "n-" contributes only its start, since its
// true upper bound is not known before the count exists. An empty script
// yields 0 (the matrix then has only the reserved row 0).
func NFrames(dirs *Directives) (int, error) {
	max := 0
	for _, key := range dirs.Keys() {
		ref, _ := dirs.Get(key)
		a, b, open, err := parseFrameRef(ref)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		if a > max {
			max = a
		}
		if !open && b > max {
			max = b
		}
	}
	return max, nil
}

// FrameList expands one frame reference into its explicit ascending frame
// list: "n" to [n], "n-m" to [n..m], "n-" to [n..nFrame]. All frames must
// fall within 1..nFrame.
func FrameList(ref string, nFrame int) ([]int, error) {
	a, b, open, err := parseFrameRef(ref)
	if err != nil {
		return nil, err
	}
	if open {
		b = nFrame
	}
	// a > nFrame also covers open references, whose b is clamped to nFrame
	if a < 1 || a > nFrame || b > nFrame {
		return nil, fmt.Errorf("%w: %q outside 1..%d", ErrFrameOutOfRange, ref, nFrame)
	}
	if a > b {
		return nil, fmt.Errorf("%w: %q: start after stop", ErrInvalidRange, ref)
	}
	frames := make([]int, 0, b-a+1)
	for f := a; f <= b; f++ {
		frames = append(frames, f)
	}
	return frames, nil
}

// BuildFrameLists expands every desugared directive into its frame list.
func BuildFrameLists(dirs *Directives, nFrame int) (*FrameLists, error) {
	out := &FrameLists{lists: make(map[string][]int, dirs.Len())}
	for _, id := range dirs.Keys() {
		ref, _ := dirs.Get(id)
		frames, err := FrameList(ref, nFrame)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out.keys = append(out.keys, id)
		out.lists[id] = frames
	}
	return out, nil
}

// parseFrameRef parses "n", "n-m" or "n-". For the open form, open is true
// and b is unset.
func parseFrameRef(ref string) (a, b int, open bool, err error) {
	ref = strings.TrimSpace(ref)
	dash := strings.IndexByte(ref, '-')
	switch {
	case dash < 0:
		a, err = strconv.Atoi(ref)
		if err != nil {
			return 0, 0, false, fmt.Errorf("%w: frame reference %q is not a number", ErrInvalidRange, ref)
		}
		return a, a, false, nil
	case dash == len(ref)-1:
		a, err = strconv.Atoi(ref[:dash])
		if err != nil {
			return 0, 0, false, fmt.Errorf("%w: open range %q has a non-numeric start", ErrInvalidRange, ref)
		}
		return a, 0, true, nil
	default:
		a, err = strconv.Atoi(ref[:dash])
		if err != nil {
			return 0, 0, false, fmt.Errorf("%w: range %q has a non-numeric start", ErrInvalidRange, ref)
		}
		b, err = strconv.Atoi(ref[dash+1:])
		if err != nil {
			return 0, 0, false, fmt.Errorf("%w: range %q has a non-numeric stop", ErrInvalidRange, ref)
		}
		return a, b, false, nil
	}
}
