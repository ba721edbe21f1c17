/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"framescript/internal/domain"
)

func sampleMatrix() *domain.Matrix {
	m := domain.NewMatrix(2, []string{"im1", "t[1]"})
	m.Set(1, "im1", 1)
	m.Set(2, "im1", 1)
	m.Set(1, "t[1]", 1)
	return m
}

func TestInitWorkspaceAndOpen(t *testing.T) {
	root := t.TempDir()
	h, err := InitWorkspace(root, sampleMatrix())
	if err != nil {
		t.Fatalf("InitWorkspace error: %v", err)
	}
	if _, err := os.Stat(h.ResultPath); err != nil {
		t.Fatalf("result file missing: %v", err)
	}
	for _, d := range []string{"exports", BackupsDirName} {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("subdir %s missing", d)
		}
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if got.Matrix.NFrame != 2 || len(got.Matrix.Columns()) != 2 {
		t.Fatalf("round-tripped matrix mismatch: %+v", got.Matrix)
	}
	if !got.Matrix.Visible(1, "im1") || got.Matrix.Visible(0, "im1") {
		t.Fatalf("round-tripped cells mismatch")
	}
}

func TestSaveCreatesBackup(t *testing.T) {
	root := t.TempDir()
	h, err := InitWorkspace(root, sampleMatrix())
	if err != nil {
		t.Fatalf("InitWorkspace error: %v", err)
	}
	// second save must back up the first result
	if err := Save(h); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) == 0 {
		t.Fatalf("expected a timestamped backup after re-save")
	}
}

func TestOpenFallsBackToBackup(t *testing.T) {
	root := t.TempDir()
	h, err := InitWorkspace(root, sampleMatrix())
	if err != nil {
		t.Fatalf("InitWorkspace error: %v", err)
	}
	if err := Save(h); err != nil { // create a backup
		t.Fatalf("Save error: %v", err)
	}
	// corrupt the current result
	if err := os.WriteFile(h.ResultPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt result: %v", err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open with backup fallback error: %v", err)
	}
	if got.Matrix.NFrame != 2 {
		t.Fatalf("backup matrix mismatch: %+v", got.Matrix)
	}
}

func TestAutosaveCrashSnapshot(t *testing.T) {
	root := t.TempDir()
	h, err := InitWorkspace(root, sampleMatrix())
	if err != nil {
		t.Fatalf("InitWorkspace error: %v", err)
	}
	path, err := AutosaveCrashSnapshot(h)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
}
