package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-postboard/internal/domain/entity"
	"github.com/oksasatya/go-postboard/pkg/helpers"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

func newTestIndex(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*PostIndex, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewPostIndex(es, "posts", helpers.NewNopLogger()), &reqs
}

func TestPostIndex_IndexAndRemove(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})
	ctx := context.Background()

	require.NoError(t, idx.Index(ctx, &entity.Post{ID: 5, UserID: 2, Title: "hello"}))
	require.NoError(t, idx.Remove(ctx, 5))
	require.NoError(t, idx.RemoveUser(ctx, 2))

	require.Len(t, *reqs, 3)
	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.Equal(t, "/posts/_doc/5", (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Body, `"post_title":"hello"`)
	assert.Equal(t, http.MethodDelete, (*reqs)[1].Method)
	assert.Equal(t, "/posts/_doc/5", (*reqs)[1].Path)
	assert.Equal(t, "/posts/_delete_by_query", (*reqs)[2].Path)
	assert.Contains(t, (*reqs)[2].Body, `"user_id":2`)
}

func TestPostIndex_RemoveMissingIsNotAnError(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, idx.Remove(context.Background(), 1))
}

func TestPostIndex_Search(t *testing.T) {
	idx, reqs := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{
				"hits": []map[string]any{
					{"_source": map[string]any{"id": 1, "user_id": 2, "post_title": "mine"}},
					{"_source": map[string]any{"id": 9, "user_id": 3, "post_title": "not mine"}},
				},
			},
		})
	})

	posts, err := idx.Search(context.Background(), 2, "mine", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Title)

	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasSuffix((*reqs)[0].Path, "/_search"))
	assert.Contains(t, (*reqs)[0].Body, `"multi_match"`)
	assert.Contains(t, (*reqs)[0].Body, `"user_id":2`)
}

func TestPostIndex_SearchError(t *testing.T) {
	idx, _ := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	})
	_, err := idx.Search(context.Background(), 2, "q", 10)
	assert.Error(t, err)
}
