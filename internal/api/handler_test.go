package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teluguwire/newsroom/internal/core/domain"
	"github.com/teluguwire/newsroom/internal/ingest"
	db "github.com/teluguwire/newsroom/internal/storage"
)

type fakeStore struct {
	articles   []domain.Article
	lastFilter db.ListFilter
	created    *domain.Article
	updated    *domain.Article
	deletedID  string
	err        error
}

func (s *fakeStore) ListArticles(_ context.Context, filter db.ListFilter) ([]domain.Article, int, error) {
	s.lastFilter = filter
	return s.articles, len(s.articles), s.err
}

func (s *fakeStore) GetArticle(_ context.Context, id string) (domain.Article, error) {
	for _, art := range s.articles {
		if art.ID == id {
			return art, nil
		}
	}

	return domain.Article{}, db.ErrArticleNotFound
}

func (s *fakeStore) CreateArticle(_ context.Context, art domain.Article) (domain.Article, error) {
	if s.err != nil {
		return domain.Article{}, s.err
	}

	s.created = &art

	return art, nil
}

func (s *fakeStore) UpdateArticle(_ context.Context, id string, art domain.Article) (domain.Article, error) {
	if s.err != nil {
		return domain.Article{}, s.err
	}

	art.ID = id
	s.updated = &art

	return art, nil
}

func (s *fakeStore) DeleteArticle(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}

	s.deletedID = id

	return nil
}

type fakeIngester struct {
	result      *ingest.CycleResult
	err         error
	lastHandle  string
	lastMax     int
	cycleCalled bool
}

func (i *fakeIngester) RunCycle(_ context.Context) (*ingest.CycleResult, error) {
	i.cycleCalled = true
	return i.result, i.err
}

func (i *fakeIngester) IngestFromAccount(_ context.Context, handle string, maxItems int) (*ingest.CycleResult, error) {
	i.lastHandle = handle
	i.lastMax = maxItems

	return i.result, i.err
}

func newTestRouter(store Store, ingester Ingester) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	handler := NewHandler(store, ingester, nil, &logger)

	engine := gin.New()
	RegisterRoutes(engine, handler)

	return engine
}

func doRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestFetchNewsRunsCycle(t *testing.T) {
	ingester := &fakeIngester{result: &ingest.CycleResult{
		Inserted: []domain.Article{{Title: "One"}},
		Sources:  []ingest.SourceResult{{Source: "rss", Fetched: 3, Inserted: 1}},
	}}
	router := newTestRouter(&fakeStore{}, ingester)

	w := doRequest(router, http.MethodGet, "/fetch-news", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ingester.cycleCalled)

	var resp struct {
		Inserted int `json:"inserted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Inserted)
}

func TestFetchNewsConflictWhenRunning(t *testing.T) {
	ingester := &fakeIngester{err: ingest.ErrCycleRunning}
	router := newTestRouter(&fakeStore{}, ingester)

	w := doRequest(router, http.MethodGet, "/fetch-news", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFetchNewsFromAccount(t *testing.T) {
	ingester := &fakeIngester{result: &ingest.CycleResult{}}
	router := newTestRouter(&fakeStore{}, ingester)

	w := doRequest(router, http.MethodGet, "/fetch-news?account=ntvteluguhd&max=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ntvteluguhd", ingester.lastHandle)
	assert.Equal(t, 3, ingester.lastMax)
	assert.False(t, ingester.cycleCalled)
}

func TestListArticlesAppliesFilters(t *testing.T) {
	store := &fakeStore{articles: []domain.Article{{ID: "a1", Title: "T"}}}
	router := newTestRouter(store, &fakeIngester{})

	w := doRequest(router, http.MethodGet, "/api/articles?language=te&region=AP&category=politics&page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "te", store.lastFilter.Language)
	assert.Equal(t, "AP", store.lastFilter.Region)
	assert.Equal(t, "politics", store.lastFilter.Category)
	assert.Equal(t, 10, store.lastFilter.Limit)
	assert.Equal(t, 10, store.lastFilter.Offset)

	var resp struct {
		Meta struct {
			Total int `json:"total"`
			Page  int `json:"page"`
		} `json:"meta"`
		Data []domain.Article `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	require.Len(t, resp.Data, 1)
}

func TestCreateArticleForcesManualProvenance(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakeIngester{})

	body, _ := json.Marshal(domain.Article{
		Title:       "Hand-written piece",
		URL:         "https://example.com/manual",
		CreatedBy:   domain.ProvenanceRSS,
		IsPublished: true,
		PublishedAt: time.Now(),
	})

	w := doRequest(router, http.MethodPost, "/api/articles", body)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)

	assert.Equal(t, domain.ProvenanceManual, store.created.CreatedBy)
	assert.False(t, store.created.IsPublished)
}

func TestCreateArticleValidatesRequiredFields(t *testing.T) {
	router := newTestRouter(&fakeStore{}, &fakeIngester{})

	body, _ := json.Marshal(domain.Article{Title: "No URL"})

	w := doRequest(router, http.MethodPost, "/api/articles", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateArticleConflict(t *testing.T) {
	store := &fakeStore{err: db.ErrArticleExists}
	router := newTestRouter(store, &fakeIngester{})

	body, _ := json.Marshal(domain.Article{Title: "Dup", URL: "https://example.com/dup"})

	w := doRequest(router, http.MethodPost, "/api/articles", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateArticleNotFound(t *testing.T) {
	store := &fakeStore{err: db.ErrArticleNotFound}
	router := newTestRouter(store, &fakeIngester{})

	body, _ := json.Marshal(domain.Article{Title: "Edited"})

	w := doRequest(router, http.MethodPut, "/api/articles/missing", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteArticle(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(store, &fakeIngester{})

	w := doRequest(router, http.MethodDelete, "/api/articles/a1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "a1", store.deletedID)
}

func TestGetArticle(t *testing.T) {
	store := &fakeStore{articles: []domain.Article{{ID: "a1", Title: "Found"}}}
	router := newTestRouter(store, &fakeIngester{})

	w := doRequest(router, http.MethodGet, "/api/articles/a1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/articles/a2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
