/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"testing"
)

func TestInitOrOpenCacheCreatesFile(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenCache(root)
	if err != nil {
		t.Fatalf("InitOrOpenCache error: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(CachePath(root)); err != nil {
		t.Fatalf("cache file missing: %v", err)
	}
	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
}

func TestCacheStoreAndLookup(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenCache(root)
	if err != nil {
		t.Fatalf("InitOrOpenCache error: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	dh := Hash([]byte(`{"text":[]}`))
	sh := Hash([]byte("<1> im1"))

	if _, ok, err := LookupMatrix(ctx, db, dh, sh); err != nil || ok {
		t.Fatalf("expected cache miss, got ok=%v err=%v", ok, err)
	}

	m := sampleMatrix()
	if err := StoreMatrix(ctx, db, dh, sh, m); err != nil {
		t.Fatalf("StoreMatrix error: %v", err)
	}
	got, ok, err := LookupMatrix(ctx, db, dh, sh)
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if got.NFrame != m.NFrame || len(got.Columns()) != len(m.Columns()) {
		t.Fatalf("cached matrix mismatch: %+v", got)
	}

	// overwrite on conflict
	m2 := sampleMatrix()
	m2.Set(2, "t[1]", 1)
	if err := StoreMatrix(ctx, db, dh, sh, m2); err != nil {
		t.Fatalf("StoreMatrix overwrite error: %v", err)
	}
	got, _, err = LookupMatrix(ctx, db, dh, sh)
	if err != nil {
		t.Fatalf("LookupMatrix error: %v", err)
	}
	if !got.Visible(2, "t[1]") {
		t.Fatalf("overwritten matrix not returned")
	}
}

func TestHashIsStable(t *testing.T) {
	a := Hash([]byte("same"))
	b := Hash([]byte("same"))
	c := Hash([]byte("different"))
	if a != b {
		t.Fatalf("hash not deterministic")
	}
	if a == c {
		t.Fatalf("distinct inputs collided")
	}
}
