// Package chroma is a client for the ChromaDB server collection API.
// Only the operations this service needs are implemented: collection
// get-or-create, add/upsert, query, get, delete and count.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Collection is a handle to a server-side collection. Documents are embedded
// by the server's configured embedding function; this client only ships text.
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	client *Client
}

// QueryResult mirrors the server's query response. The outer slice has one
// entry per query text.
type QueryResult struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

// GetResult mirrors the server's get response.
type GetResult struct {
	IDs       []string                 `json:"ids"`
	Documents []string                 `json:"documents"`
	Metadatas []map[string]interface{} `json:"metadatas"`
}

// GetOrCreateCollection fetches the named collection, creating it if needed.
func (c *Client) GetOrCreateCollection(ctx context.Context, name string) (*Collection, error) {
	reqBody := map[string]interface{}{
		"name":          name,
		"get_or_create": true,
	}

	var col Collection
	if err := c.do(ctx, http.MethodPost, "/api/v1/collections", reqBody, &col); err != nil {
		return nil, fmt.Errorf("get or create collection %q: %w", name, err)
	}
	col.client = c

	return &col, nil
}

// Upsert stores documents under the given IDs, replacing existing entries.
func (col *Collection) Upsert(ctx context.Context, ids, documents []string, metadatas []map[string]interface{}) error {
	reqBody := map[string]interface{}{
		"ids":       ids,
		"documents": documents,
		"metadatas": metadatas,
	}

	path := fmt.Sprintf("/api/v1/collections/%s/upsert", col.ID)
	if err := col.client.do(ctx, http.MethodPost, path, reqBody, nil); err != nil {
		return fmt.Errorf("upsert into %q: %w", col.Name, err)
	}
	return nil
}

// Query runs a similarity search over the collection. A nil where matches
// everything.
func (col *Collection) Query(ctx context.Context, queryTexts []string, nResults int, where map[string]interface{}) (*QueryResult, error) {
	reqBody := map[string]interface{}{
		"query_texts": queryTexts,
		"n_results":   nResults,
		"include":     []string{"documents", "metadatas", "distances"},
	}
	if where != nil {
		reqBody["where"] = where
	}

	var result QueryResult
	path := fmt.Sprintf("/api/v1/collections/%s/query", col.ID)
	if err := col.client.do(ctx, http.MethodPost, path, reqBody, &result); err != nil {
		return nil, fmt.Errorf("query %q: %w", col.Name, err)
	}

	return &result, nil
}

// Get returns every document in the collection.
func (col *Collection) Get(ctx context.Context) (*GetResult, error) {
	reqBody := map[string]interface{}{
		"include": []string{"documents", "metadatas"},
	}

	var result GetResult
	path := fmt.Sprintf("/api/v1/collections/%s/get", col.ID)
	if err := col.client.do(ctx, http.MethodPost, path, reqBody, &result); err != nil {
		return nil, fmt.Errorf("get %q: %w", col.Name, err)
	}

	return &result, nil
}

// Delete removes documents by ID and/or metadata filter. With both nil the
// server rejects the request, so callers must pass at least one.
func (col *Collection) Delete(ctx context.Context, ids []string, where map[string]interface{}) error {
	reqBody := map[string]interface{}{}
	if len(ids) > 0 {
		reqBody["ids"] = ids
	}
	if where != nil {
		reqBody["where"] = where
	}

	path := fmt.Sprintf("/api/v1/collections/%s/delete", col.ID)
	if err := col.client.do(ctx, http.MethodPost, path, reqBody, nil); err != nil {
		return fmt.Errorf("delete from %q: %w", col.Name, err)
	}
	return nil
}

// Count returns the number of documents in the collection.
func (col *Collection) Count(ctx context.Context) (int, error) {
	var count int
	path := fmt.Sprintf("/api/v1/collections/%s/count", col.ID)
	if err := col.client.do(ctx, http.MethodGet, path, nil, &count); err != nil {
		return 0, fmt.Errorf("count %q: %w", col.Name, err)
	}
	return count, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, out interface{}) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chroma request failed (is the server running?): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("chroma API error: %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode chroma response: %w", err)
	}
	return nil
}
