/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"framescript/internal/domain"
)

const (
	ResultFileName = "matrix.json"
	BackupsDirName = "backups"
)

// Standard subfolders of a conversion workspace.
var standardSubDirs = []string{
	"exports",
	BackupsDirName,
}

// Handle tracks the workspace state loaded/saved from disk.
// Root is the workspace directory containing matrix.json and subfolders.
type Handle struct {
	Root       string
	ResultPath string
	Matrix     *domain.Matrix
}

// InitWorkspace creates a workspace directory at root (creating it if
// needed), scaffolds the standard subfolders, and writes the given matrix
// transactionally.
func InitWorkspace(root string, m *domain.Matrix) (*Handle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	h := &Handle{
		Root:       root,
		ResultPath: filepath.Join(root, ResultFileName),
		Matrix:     m,
	}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads an existing workspace result from the given root directory.
// If the current result cannot be read or parsed, it attempts the last backup.
func Open(root string) (*Handle, error) {
	rpath := filepath.Join(root, ResultFileName)
	b, err := os.ReadFile(rpath)
	if err != nil {
		m, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open result: %w; backup attempt: %v", err, berr)
		}
		return &Handle{Root: root, ResultPath: rpath, Matrix: m}, nil
	}
	var m domain.Matrix
	if uerr := json.Unmarshal(b, &m); uerr != nil {
		bm, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse result: %w; backup attempt: %v", uerr, berr)
		}
		return &Handle{Root: root, ResultPath: rpath, Matrix: bm}, nil
	}
	return &Handle{Root: root, ResultPath: rpath, Matrix: &m}, nil
}

// Save writes the current Handle.Matrix to disk with transactional semantics
// and a timestamped backup of the previous result (if present).
func Save(h *Handle) error {
	if h == nil {
		return errors.New("nil Handle")
	}
	if h.Root == "" || h.ResultPath == "" {
		return errors.New("invalid Handle: missing paths")
	}
	if h.Matrix == nil {
		return errors.New("invalid Handle: no matrix")
	}
	data, err := json.MarshalIndent(h.Matrix, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current result exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(h.ResultPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", ResultFileName, stamp)
		bpath := filepath.Join(bdir, bname)
		if cerr := copyFile(h.ResultPath, bpath); cerr != nil {
			return fmt.Errorf("backup current result: %w", cerr)
		}
	}

	// Transactional write: temp file in the same directory, then rename over target
	dir := filepath.Dir(h.ResultPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ResultFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp result: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.ResultPath); err == nil {
		_ = os.Remove(h.ResultPath)
	}
	if rerr := os.Rename(temp, h.ResultPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace result: %w", rerr)
	}
	return nil
}

// AutosaveCrashSnapshot writes a best-effort snapshot of the current matrix
// to the backups directory and returns its path. Used by crash recovery.
func AutosaveCrashSnapshot(h *Handle) (string, error) {
	if h == nil || h.Matrix == nil {
		return "", errors.New("nothing to snapshot")
	}
	data, err := json.MarshalIndent(h.Matrix, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("%s.autosave-%s.json", ResultFileName, stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Matrix, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ResultFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var m domain.Matrix
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &m, nil
}
