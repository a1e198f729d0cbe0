package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/nanum-market/nanum/internal/service"
)

const reviewMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "order_id":     {"type": "keyword"},
      "product_id":   {"type": "keyword"},
      "product_name": {"type": "text"},
      "rating":       {"type": "float"},
      "comment":      {"type": "text"},
      "created_at":   {"type": "date"}
    }
  }
}`

type ReviewIndex struct {
	es    *elasticsearch.Client
	index string
}

var _ service.ReviewIndex = (*ReviewIndex)(nil)

func NewReviewIndex(client *elasticsearch.Client, index string) *ReviewIndex {
	return &ReviewIndex{es: client, index: index}
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (r *ReviewIndex) EnsureIndex(ctx context.Context) error {
	res, err := r.es.Indices.Exists([]string{r.index}, r.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = r.es.Indices.Create(r.index,
		r.es.Indices.Create.WithContext(ctx),
		r.es.Indices.Create.WithBody(bytes.NewReader([]byte(reviewMapping))),
	)
	if err != nil {
		return fmt.Errorf("es: create index: %w", err)
	}
	return checkResponse(res, "create index")
}

func (r *ReviewIndex) IndexReview(ctx context.Context, doc service.ReviewDocument) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("es: encode review: %w", err)
	}

	res, err := r.es.Index(r.index, &buf,
		r.es.Index.WithContext(ctx),
		r.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("es: index review: %w", err)
	}
	return checkResponse(res, "index review")
}

func (r *ReviewIndex) SearchReviews(ctx context.Context, query string, from, size int) (int64, []service.ReviewDocument, error) {
	q := map[string]any{"match_all": map[string]any{}}
	if query != "" {
		q = map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"product_name^2", "comment"},
				"fuzziness": "AUTO",
			},
		}
	}
	body := map[string]any{
		"query": q,
		"from":  from,
		"size":  size,
		"sort":  []any{"_score", map[string]any{"created_at": "desc"}},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := r.es.Search(
		r.es.Search.WithContext(ctx),
		r.es.Search.WithIndex(r.index),
		r.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("es: search: %s: %s", res.Status(), msg)
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source service.ReviewDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	docs := make([]service.ReviewDocument, len(out.Hits.Hits))
	for i, h := range out.Hits.Hits {
		docs[i] = h.Source
	}
	return out.Hits.Total.Value, docs, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es: %s: %s: %s", op, res.Status(), msg)
	}
	return nil
}
