// Package api exposes the content HTTP API: on-demand ingestion and
// CRUD over stored articles.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/core/domain"
	"github.com/teluguwire/newsroom/internal/ingest"
	db "github.com/teluguwire/newsroom/internal/storage"
)

// Ingester triggers ingestion outside the schedule.
type Ingester interface {
	RunCycle(ctx context.Context) (*ingest.CycleResult, error)
	IngestFromAccount(ctx context.Context, handle string, maxItems int) (*ingest.CycleResult, error)
}

// Store is the article repository surface the handlers need.
type Store interface {
	ListArticles(ctx context.Context, filter db.ListFilter) ([]domain.Article, int, error)
	GetArticle(ctx context.Context, id string) (domain.Article, error)
	CreateArticle(ctx context.Context, art domain.Article) (domain.Article, error)
	UpdateArticle(ctx context.Context, id string, art domain.Article) (domain.Article, error)
	DeleteArticle(ctx context.Context, id string) error
}

type Handler struct {
	store    Store
	ingester Ingester
	cache    *Cache
	logger   *zerolog.Logger
}

// NewHandler creates the API handler set. cache may be nil when Redis is
// not configured.
func NewHandler(store Store, ingester Ingester, cache *Cache, logger *zerolog.Logger) *Handler {
	return &Handler{
		store:    store,
		ingester: ingester,
		cache:    cache,
		logger:   logger,
	}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/fetch-news", h.FetchNews)

	articles := r.Group("/api/articles")
	{
		articles.GET("", h.ListArticles)
		articles.POST("", h.CreateArticle)
		articles.GET("/:id", h.GetArticle)
		articles.PUT("/:id", h.UpdateArticle)
		articles.DELETE("/:id", h.DeleteArticle)
	}
}

// FetchNews: GET /fetch-news[?account=handle&max=5]
// Without an account it runs a full ingestion cycle; with one it scrapes
// just that account's timeline.
func (h *Handler) FetchNews(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		result *ingest.CycleResult
		err    error
	)

	if account := c.Query("account"); account != "" {
		maxItems, _ := strconv.Atoi(c.DefaultQuery("max", "0"))
		result, err = h.ingester.IngestFromAccount(ctx, account, maxItems)
	} else {
		result, err = h.ingester.RunCycle(ctx)
	}

	if err != nil {
		if errors.Is(err, ingest.ErrCycleRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": "ingestion already running"})
			return
		}

		h.logger.Error().Err(err).Msg("on-demand ingestion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	h.invalidateCache(ctx)

	sources := make([]gin.H, 0, len(result.Sources))
	for _, src := range result.Sources {
		entry := gin.H{
			"source":   src.Source,
			"fetched":  src.Fetched,
			"inserted": src.Inserted,
		}

		if src.Err != nil {
			entry["error"] = src.Err.Error()
		}

		sources = append(sources, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"inserted": result.InsertedCount(),
		"sources":  sources,
	})
}

// ListArticles: GET /api/articles?language=te&region=AP&category=politics&source=...&page=1&limit=20
func (h *Handler) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()
	cacheKey := c.Request.URL.RawQuery

	if h.cache != nil {
		if body, ok := h.cache.Get(ctx, cacheKey); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := db.ListFilter{
		Language:       c.Query("language"),
		Region:         c.Query("region"),
		Category:       c.Query("category"),
		Source:         c.Query("source"),
		IncludeBlocked: c.Query("includeBlocked") == "true",
		OnlyPublished:  c.Query("published") == "true",
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}

	articles, total, err := h.store.ListArticles(ctx, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("list articles failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if articles == nil {
		articles = []domain.Article{}
	}

	response := gin.H{
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
		"data": articles,
	}

	if h.cache != nil {
		if body, err := json.Marshal(response); err == nil {
			h.cache.Set(ctx, cacheKey, body)
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetArticle: GET /api/articles/:id
func (h *Handler) GetArticle(c *gin.Context) {
	art, err := h.store.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, art)
}

// CreateArticle: POST /api/articles
// Manual submissions start unpublished; an editor flips the flag later.
func (h *Handler) CreateArticle(c *gin.Context) {
	var art domain.Article
	if err := c.BindJSON(&art); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	if art.Title == "" || art.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and url are required"})
		return
	}

	art.CreatedBy = domain.ProvenanceManual
	art.IsPublished = false

	if art.Language == "" {
		art.Language = domain.LanguageEnglish
	}

	if art.PublishedAt.IsZero() {
		art.PublishedAt = time.Now().UTC()
	}

	created, err := h.store.CreateArticle(c.Request.Context(), art)
	if err != nil {
		if errors.Is(err, db.ErrArticleExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "article with this url already exists"})
			return
		}

		h.logger.Error().Err(err).Msg("create article failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	h.invalidateCache(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// UpdateArticle: PUT /api/articles/:id
func (h *Handler) UpdateArticle(c *gin.Context) {
	var art domain.Article
	if err := c.BindJSON(&art); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}

	updated, err := h.store.UpdateArticle(c.Request.Context(), c.Param("id"), art)
	if err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}

		h.logger.Error().Err(err).Msg("update article failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	h.invalidateCache(c.Request.Context())
	c.JSON(http.StatusOK, updated)
}

// DeleteArticle: DELETE /api/articles/:id
func (h *Handler) DeleteArticle(c *gin.Context) {
	if err := h.store.DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, db.ErrArticleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	h.invalidateCache(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handler) invalidateCache(ctx context.Context) {
	if h.cache != nil {
		h.cache.Invalidate(ctx)
	}
}
