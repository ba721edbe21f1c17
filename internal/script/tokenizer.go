/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"strings"
)

// Directives is an insertion-ordered map from object reference to raw frame
// reference. Re-setting an existing key overwrites the value but keeps the
// original position (last-wins policy, first-seen order). Column order of the
// final matrix derives from this order.
type Directives struct {
	keys []string
	vals map[string]string
}

// NewDirectives returns an empty directive map.
func NewDirectives() *Directives {
	return &Directives{vals: map[string]string{}}
}

// Set inserts or overwrites the frame reference for an object reference.
func (d *Directives) Set(ref, frameRef string) {
	if _, ok := d.vals[ref]; !ok {
		d.keys = append(d.keys, ref)
	}
	d.vals[ref] = frameRef
}

// Get returns the frame reference for an object reference.
func (d *Directives) Get(ref string) (string, bool) {
	v, ok := d.vals[ref]
	return v, ok
}

// Keys returns the object references in first-seen order.
func (d *Directives) Keys() []string { return d.keys }

// Len returns the number of directives.
func (d *Directives) Len() int { return len(d.keys) }

// Render writes the directives back out as canonical "<frame-ref> object-ref"
// lines, one per directive, in map order.
func (d *Directives) Render() string {
	var b strings.Builder
	for i, k := range d.keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("<")
		b.WriteString(d.vals[k])
		b.WriteString("> ")
		b.WriteString(k)
	}
	return b.String()
}

// bracket-scanning states
type tokenState int

const (
	stateOutside tokenState = iota
	stateInBracket
	stateAfterBracket
)

// Tokenize splits the raw script into directives. Each non-empty line must
// contain exactly one <...> pair followed by an object reference; blank lines
// are skipped. Malformed lines fail with ErrMalformedLine and the 1-based
// line number.
func Tokenize(input string) (*Directives, error) {
	out := NewDirectives()
	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		frameRef, objectRef, err := splitLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out.Set(objectRef, frameRef)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan script: %w", err)
	}
	return out, nil
}

// splitLine extracts the frame reference between the first < and the
// following >, and the trailing object reference, via a small state machine.
func splitLine(line string) (frameRef, objectRef string, err error) {
	state := stateOutside
	var refStart, refEnd int
	for i := 0; i < len(line); i++ {
		switch c := line[i]; state {
		case stateOutside:
			switch c {
			case '<':
				state = stateInBracket
				refStart = i + 1
			case '>':
				return "", "", fmt.Errorf("%w: %q before %q", ErrMalformedLine, ">", "<")
			}
		case stateInBracket:
			switch c {
			case '>':
				state = stateAfterBracket
				refEnd = i
			case '<':
				return "", "", fmt.Errorf("%w: nested %q", ErrMalformedLine, "<")
			}
		case stateAfterBracket:
			if c == '<' || c == '>' {
				return "", "", fmt.Errorf("%w: stray %q after frame reference", ErrMalformedLine, string(c))
			}
		}
	}
	switch state {
	case stateOutside:
		return "", "", fmt.Errorf("%w: missing frame reference", ErrMalformedLine)
	case stateInBracket:
		return "", "", fmt.Errorf("%w: unterminated frame reference", ErrMalformedLine)
	}
	frameRef = strings.TrimSpace(line[refStart:refEnd])
	objectRef = strings.TrimSpace(line[refEnd+1:])
	if frameRef == "" {
		return "", "", fmt.Errorf("%w: empty frame reference", ErrMalformedLine)
	}
	if objectRef == "" {
		return "", "", fmt.Errorf("%w: missing object reference", ErrMalformedLine)
	}
	return frameRef, objectRef, nil
}
