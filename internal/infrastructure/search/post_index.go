package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

const requestTimeout = 3 * time.Second

// PostsMapping is the index mapping used by EnsureIndex.
const PostsMapping = `{
  "mappings": {
    "properties": {
      "id":               {"type": "long"},
      "user_id":          {"type": "long"},
      "post_title":       {"type": "text"},
      "post_body":        {"type": "text"},
      "post_description": {"type": "text"},
      "created_at":       {"type": "date"},
      "updated_at":       {"type": "date"}
    }
  }
}`

// PostIndex stores posts in an Elasticsearch index, one document per post
// keyed by its id.
type PostIndex struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewPostIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *PostIndex {
	return &PostIndex{es: es, index: index, logger: logger}
}

// EnsureIndex creates the posts index when it is missing.
func (x *PostIndex) EnsureIndex(ctx context.Context) error {
	return helpers.EnsureIndex(ctx, x.es, x.index, PostsMapping)
}

type postDoc struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"post_title"`
	Body        string    `json:"post_body"`
	Description string    `json:"post_description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDoc(p *entity.Post) postDoc {
	return postDoc{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Body:        p.Body,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d postDoc) toEntity() entity.Post {
	return entity.Post{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Body:        d.Body,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (x *PostIndex) Index(ctx context.Context, p *entity.Post) error {
	b, err := json.Marshal(toDoc(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	return x.do(ctx, req, "index post")
}

func (x *PostIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: strconv.FormatInt(id, 10)}
	return x.do(ctx, req, "remove post")
}

// RemoveUser deletes every document owned by userID.
func (x *PostIndex) RemoveUser(ctx context.Context, userID int64) error {
	b, _ := json.Marshal(map[string]any{
		"query": map[string]any{
			"term": map[string]any{"user_id": userID},
		},
	})
	req := esapi.DeleteByQueryRequest{Index: []string{x.index}, Body: bytes.NewReader(b)}
	return x.do(ctx, req, "remove user posts")
}

// Search runs a multi_match over title, body and description restricted to
// the posts of userID.
func (x *PostIndex) Search(ctx context.Context, userID int64, query string, size int) ([]entity.Post, error) {
	b, _ := json.Marshal(map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"post_title^2", "post_body", "post_description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	})

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search posts: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source postDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Post, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if h.Source.UserID != userID {
			continue
		}
		out = append(out, h.Source.toEntity())
	}
	return out, nil
}

func (x *PostIndex) do(ctx context.Context, req esapi.Request, op string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		x.logger.WithField("status", res.Status()).Warn(op + " response error")
		return fmt.Errorf("%s: %s", op, res.Status())
	}
	return nil
}
