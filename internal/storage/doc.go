/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists conversion results in a workspace directory.
// It writes the canonical matrix JSON (matrix.json) with transactional
// writes and timestamped backups, and keeps a per-workspace embedded SQLite
// cache at <workspace>/.frs/cache.sqlite mapping (diagram hash, script hash)
// to previously computed matrices. The cache is derived data and is
// rebuildable/disposable by design.
package storage
