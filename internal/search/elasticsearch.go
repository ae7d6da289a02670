package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"techzeon/internal/config"
	"techzeon/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const maxResults = 1000

// ElasticsearchClient представляет клиент для полнотекстового поиска событий
type ElasticsearchClient struct {
	client *elasticsearch.Client
	index  string
}

// NewElasticsearchClient создает клиент и индекс событий, если его нет
func NewElasticsearchClient(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &ElasticsearchClient{client: es, index: cfg.Index}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return client, nil
}

func (c *ElasticsearchClient) ensureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{c.index}}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", c.index)
		return nil
	}

	body, err := json.Marshal(indexMapping())
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: c.index,
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index: %s", createRes.String())
	}

	slog.Info("Created Elasticsearch index", "index", c.index)
	return nil
}

func indexMapping() map[string]any {
	text := map[string]any{"type": "text", "analyzer": "event_text"}

	return map[string]any{
		"settings": map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 0,
			"analysis": map[string]any{
				"analyzer": map[string]any{
					"event_text": map[string]any{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "english_stop", "english_stemmer"},
					},
				},
				"filter": map[string]any{
					"english_stop":    map[string]any{"type": "stop", "stopwords": "_english_"},
					"english_stemmer": map[string]any{"type": "stemmer", "language": "english"},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id": map[string]any{"type": "long"},
				"title": map[string]any{
					"type":     "text",
					"analyzer": "event_text",
					"fields": map[string]any{
						"keyword": map[string]any{"type": "keyword", "ignore_above": 512},
					},
				},
				"description": text,
				"location":    text,
				"category":    map[string]any{"type": "keyword"},
				"date":        map[string]any{"type": "date", "format": "yyyy-MM-dd"},
				"start_time":  map[string]any{"type": "keyword"},
				"end_time":    map[string]any{"type": "keyword"},
				"capacity":    map[string]any{"type": "integer"},
				"price":       map[string]any{"type": "scaled_float", "scaling_factor": 100},
				"created_at":  map[string]any{"type": "date"},
				"updated_at":  map[string]any{"type": "date"},
			},
		},
	}
}

// Search выполняет поиск событий по тексту и категории
func (c *ElasticsearchClient) Search(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	body, err := json.Marshal(buildSearchRequest(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{c.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var response struct {
		Hits struct {
			Hits []struct {
				Source models.Event `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	events := make([]models.Event, len(response.Hits.Hits))
	for i, hit := range response.Hits.Hits {
		events[i] = hit.Source
	}

	return events, nil
}

// buildSearchRequest matches the SQL listing: a case-insensitive substring
// of the title and an exact category, ordered by date.
func buildSearchRequest(filter models.EventFilter) map[string]any {
	var filters []map[string]any

	if filter.Query != "" {
		filters = append(filters, map[string]any{
			"wildcard": map[string]any{
				"title.keyword": map[string]any{
					"value":            "*" + escapeWildcard(filter.Query) + "*",
					"case_insensitive": true,
				},
			},
		})
	}

	if filter.Category != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"category": filter.Category},
		})
	}

	query := map[string]any{"match_all": map[string]any{}}
	if len(filters) > 0 {
		query = map[string]any{"bool": map[string]any{"filter": filters}}
	}

	sort := []map[string]any{
		{"date": map[string]any{"order": "asc"}},
		{"start_time": map[string]any{"order": "asc"}},
		{"id": map[string]any{"order": "asc"}},
	}

	return map[string]any{
		"query": query,
		"sort":  sort,
		"size":  maxResults,
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

// IndexEvent индексирует событие
func (c *ElasticsearchClient) IndexEvent(ctx context.Context, event *models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	res, err := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: strconv.FormatInt(event.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing error: %s", res.String())
	}

	return nil
}

// DeleteEvent удаляет событие из индекса
func (c *ElasticsearchClient) DeleteEvent(ctx context.Context, id int64) error {
	res, err := esapi.DeleteRequest{
		Index:      c.index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "wait_for",
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}

	return nil
}

// Reindex loads every event into the index, used on startup so search
// covers rows written while the cluster was unavailable.
func (c *ElasticsearchClient) Reindex(ctx context.Context, events []models.Event) error {
	for i := range events {
		if err := c.IndexEvent(ctx, &events[i]); err != nil {
			return err
		}
	}
	slog.Info("Reindexed events", "index", c.index, "count", len(events))
	return nil
}

// HealthCheck проверяет состояние Elasticsearch
func (c *ElasticsearchClient) HealthCheck(ctx context.Context) error {
	res, err := esapi.ClusterHealthRequest{
		WaitForStatus: "yellow",
		Timeout:       10 * time.Second,
	}.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("health check error: %s", res.String())
	}

	return nil
}
