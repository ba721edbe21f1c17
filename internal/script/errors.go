/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "errors"

// Conversion failures abort the whole run; there is no partial output mode.
// Callers can classify failures with errors.Is against these sentinels.
var (
	// ErrMalformedLine marks a script line without a well-formed <frame-ref>
	// bracket pair or with an empty frame reference or object reference.
	ErrMalformedLine = errors.New("malformed script line")

	// ErrUnknownObject marks a directive whose object id matches neither a
	// text box nor an image/formula object of the diagram.
	ErrUnknownObject = errors.New("unknown object id")

	// ErrInvalidRange marks a non-numeric, reversed or out-of-shape range,
	// in a frame reference or a text-box slice.
	ErrInvalidRange = errors.New("invalid range")

	// ErrFrameOutOfRange marks a frame index outside 0..n_frame.
	ErrFrameOutOfRange = errors.New("frame index out of range")
)
