/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script implements the visibility-script pipeline: it tokenizes the
// compact frame notation, expands text-box sugar into one directive per
// atomic cell, resolves frame ranges into explicit frame lists, and
// assembles the frame-by-object presence matrix.
//
// A script is a sequence of lines of the form
//
//	<frame-ref> object-ref
//
// where frame-ref is "n" (single frame), "n-m" (closed inclusive range) or
// "n-" (open range up to the last frame), and object-ref is a raw object id,
// a whole text-box id, or a text-box slice like "id[2:4]", "id[2:]",
// "id[:4]" or "id[3]". Frames and text-box cells are 1-based; frame 0 is a
// reserved always-empty row of the final matrix.
//
// Convert is the entry point; the remaining exported functions are the
// individual pipeline stages.
package script
