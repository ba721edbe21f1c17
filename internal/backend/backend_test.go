/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"framescript/internal/domain"
)

func TestTokenSignAndVerify(t *testing.T) {
	secret := "unit-secret"
	tok, err := signToken(secret, "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken error: %v", err)
	}
	sub, err := verifyToken(secret, tok)
	if err != nil {
		t.Fatalf("verifyToken error: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject = %q, want alice", sub)
	}
}

func TestTokenVerifyRejectsTampering(t *testing.T) {
	secret := "unit-secret"
	tok, err := signToken(secret, "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("signToken error: %v", err)
	}
	if _, err := verifyToken("other-secret", tok); err == nil {
		t.Fatalf("expected bad signature with wrong secret")
	}
	if _, err := verifyToken(secret, "not.a.token.at.all"); err == nil {
		t.Fatalf("expected invalid format error")
	}
}

func TestTokenVerifyRejectsExpired(t *testing.T) {
	secret := "unit-secret"
	tok, err := signToken(secret, "alice", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("signToken error: %v", err)
	}
	if _, err := verifyToken(secret, tok); err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestWithAuthRequiresBearer(t *testing.T) {
	h := withAuth("s", func(w http.ResponseWriter, r *http.Request, sub string) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/diagrams", nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	if err != nil {
		t.Fatalf("parseVersion error: %v", err)
	}
	if v != 1 {
		t.Fatalf("version = %d, want 1", v)
	}
	if _, err := parseVersion("notanumber_x.sql"); err == nil {
		t.Fatalf("expected error for non-numeric prefix")
	}
}

func TestClientPushMatrix(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || !strings.HasSuffix(r.URL.Path, "/api/diagrams/7/matrix") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		writeJSON(w, http.StatusOK, map[string]any{"diagram_id": 7, "version": 3})
	}))
	defer srv.Close()

	m := domain.NewMatrix(1, []string{"im1"})
	m.Set(1, "im1", 1)

	c := NewClient(srv.URL, "tok123")
	res, err := c.PushMatrix(context.Background(), 7, m)
	if err != nil {
		t.Fatalf("PushMatrix error: %v", err)
	}
	if res.DiagramID != 7 || res.Version != 3 {
		t.Fatalf("unexpected push result: %+v", res)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	var sent domain.Matrix
	if err := json.Unmarshal(gotBody, &sent); err != nil {
		t.Fatalf("uploaded body is not a matrix: %v", err)
	}
	if sent.NFrame != 1 {
		t.Fatalf("uploaded n_frame = %d, want 1", sent.NFrame)
	}
}

func TestClientListDiagrams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/diagrams" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, []Diagram{{ID: 1, StableID: "abc", Name: "demo", Version: 2}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	list, err := c.ListDiagrams(context.Background())
	if err != nil {
		t.Fatalf("ListDiagrams error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "demo" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
