package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"concierge/models"
)

// QdrantSearch implements VectorSearch against a Qdrant instance, with an
// embedding sidecar turning query text into a vector first.
type QdrantSearch struct {
	baseURL    string
	collection string
	embedURL   string
	client     *http.Client
}

func NewQdrantSearch(baseURL, collection, embedURL string) *QdrantSearch {
	return &QdrantSearch{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		embedURL:   embedURL,
		client:     &http.Client{},
	}
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Vectors [][]float64 `json:"vectors"`
}

type qdrantSearchRequest struct {
	Vector      []float64 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type qdrantSearchResponse struct {
	Result []struct {
		ID      json.Number `json:"id"`
		Score   float64     `json:"score"`
		Payload struct {
			Text   string `json:"text"`
			Source string `json:"source"`
			DocID  string `json:"doc_id"`
		} `json:"payload"`
	} `json:"result"`
}

// Search embeds the query and runs a nearest-neighbour search.
func (q *QdrantSearch) Search(ctx context.Context, text string, topK int) ([]models.RetrievalHit, error) {
	vector, err := q.embed(ctx, text)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(qdrantSearchRequest{Vector: vector, Limit: topK, WithPayload: true})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", q.baseURL, q.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qdrant returned status %d", resp.StatusCode)
	}

	var parsed qdrantSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode qdrant response: %w", err)
	}

	hits := make([]models.RetrievalHit, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		id := r.Payload.DocID
		if id == "" {
			id = r.ID.String()
		}
		source := r.Payload.Source
		if source == "" {
			source = models.SourceFile
		}
		hits = append(hits, models.RetrievalHit{
			ID:     id,
			Source: source,
			Score:  r.Score,
			Text:   r.Payload.Text,
		})
	}
	return hits, nil
}

func (q *QdrantSearch) embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embedRequest{Texts: []string{text}})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.embedURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(parsed.Vectors) == 0 || len(parsed.Vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding service returned no vector")
	}
	return parsed.Vectors[0], nil
}
