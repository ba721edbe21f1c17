/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"framescript/internal/domain"
)

// Client is a minimal HTTP client for the share server API.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body []byte, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rdr *bytes.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// Diagram is a minimal projection for listing.
type Diagram struct {
	ID        int64     `json:"id"`
	StableID  string    `json:"stable_id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// ListDiagrams returns the diagrams known to the server.
func (c *Client) ListDiagrams(ctx context.Context) ([]Diagram, error) {
	var list []Diagram
	if err := c.doJSON(ctx, http.MethodGet, "/api/diagrams", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MatrixSnapshotEnvelope matches the server response for the latest matrix snapshot of a diagram.
type MatrixSnapshotEnvelope struct {
	DiagramID int64       `json:"diagram_id"`
	Version   int64       `json:"version"`
	CreatedAt string      `json:"created_at"`
	Snapshot  interface{} `json:"snapshot"`
}

// GetMatrixSnapshot fetches the latest matrix snapshot for a diagram.
func (c *Client) GetMatrixSnapshot(ctx context.Context, diagramID int64) (*MatrixSnapshotEnvelope, error) {
	var env MatrixSnapshotEnvelope
	path := fmt.Sprintf("/api/diagrams/%d/matrix", diagramID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// PushResult is the server acknowledgment for an uploaded snapshot.
type PushResult struct {
	DiagramID int64 `json:"diagram_id"`
	Version   int64 `json:"version"`
}

// PushMatrix uploads a matrix as the next snapshot version of a diagram.
func (c *Client) PushMatrix(ctx context.Context, diagramID int64, m *domain.Matrix) (*PushResult, error) {
	if m == nil {
		return nil, fmt.Errorf("matrix is nil")
	}
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix: %w", err)
	}
	var res PushResult
	path := fmt.Sprintf("/api/diagrams/%d/matrix", diagramID)
	if err := c.doJSON(ctx, http.MethodPut, path, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
