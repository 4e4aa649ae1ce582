// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package qdrant is a minimal REST client for the Qdrant vector
// database. It stores one point per user, with the user id as the
// point id, and assumes cosine distance.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/vectorindex"
)

const (
	DefaultCollection = "profiles"
	DefaultDimension  = 384

	defaultTimeout = 15 * time.Second
)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Index is a vectorindex.Index backed by a Qdrant collection.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	logger     *slog.Logger
}

var _ vectorindex.Index = (*Index)(nil)

func NewIndex(cfg Config, logger *slog.Logger) (*Index, error) {
	if cfg.URL == "" {
		return nil, errors.New("qdrant url is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
		logger:     logger.With("component", "qdrant"),
	}, nil
}

// Init creates the collection if it does not exist. Qdrant answers 200
// for an existing collection with the same schema, so repeated calls
// are safe.
func (q *Index) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := q.putJSON(ctx, fmt.Sprintf("%s/collections/%s", q.url, q.collection), body); err != nil {
		return err
	}
	q.logger.Debug("collection ready", "collection", q.collection, "dimension", dimension)
	return nil
}

func (q *Index) Upsert(ctx context.Context, userID core.UserID, vector []float32) error {
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":     uint64(userID),
				"vector": vector,
				"payload": map[string]any{
					"user_id": userID,
				},
			},
		},
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, q.collection)
	return q.putJSON(ctx, url, body)
}

func (q *Index) Retrieve(ctx context.Context, userID core.UserID) ([]float32, error) {
	url := fmt.Sprintf("%s/collections/%s/points/%d", q.url, q.collection, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vectorindex.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, vectorindex.ErrVectorNotFound
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant GET %s failed: %s", url, resp.Status)
	}
	var out struct {
		Result struct {
			Vector []float32 `json:"vector"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding qdrant point: %w", err)
	}
	if len(out.Result.Vector) == 0 {
		return nil, vectorindex.ErrVectorNotFound
	}
	return out.Result.Vector, nil
}

func (q *Index) Search(ctx context.Context, vector []float32, limit int) ([]vectorindex.Hit, error) {
	if limit <= 0 {
		return nil, nil
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": false,
	}
	var out struct {
		Result []struct {
			ID    uint64  `json:"id"`
			Score float32 `json:"score"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", q.url, q.collection)
	if err := q.postJSON(ctx, url, body, &out); err != nil {
		return nil, err
	}
	hits := make([]vectorindex.Hit, 0, len(out.Result))
	for _, r := range out.Result {
		hits = append(hits, vectorindex.Hit{UserID: core.UserID(r.ID), Score: r.Score})
	}
	return hits, nil
}

func (q *Index) Delete(ctx context.Context, userID core.UserID) error {
	body := map[string]any{
		"points": []uint64{uint64(userID)},
	}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", q.url, q.collection)
	return q.postJSON(ctx, url, body, nil)
}

func (q *Index) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
}

func (q *Index) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", vectorindex.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (q *Index) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	q.setHeaders(req)
	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", vectorindex.ErrIndexUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
