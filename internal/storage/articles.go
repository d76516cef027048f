package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/teluguwire/newsroom/internal/core/domain"
)

var (
	// ErrArticleNotFound is returned when no article matches the given ID.
	ErrArticleNotFound = errors.New("article not found")

	// ErrArticleExists is returned when an article with the same URL is
	// already stored.
	ErrArticleExists = errors.New("article already exists")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var articleColumns = []string{
	"id", "title", "summary", "body", "language", "region", "source",
	"url", "image_url", "media", "published_at", "categories",
	"top_category", "created_by", "is_published", "blocked",
	"created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ListFilter narrows the article listing. Zero values mean "no filter".
type ListFilter struct {
	Language string
	Region   string
	Category string
	Source   string

	// IncludeBlocked also returns articles hidden by moderation.
	IncludeBlocked bool

	// OnlyPublished restricts the listing to published articles.
	OnlyPublished bool

	Limit  int
	Offset int
}

// UpsertIfAbsent inserts the article unless its URL is already stored.
// Reports whether a row was inserted. A missing ID is generated.
func (db *DB) UpsertIfAbsent(ctx context.Context, art domain.Article) (bool, error) {
	if art.ID == "" {
		art.ID = uuid.NewString()
	}

	media, categories, err := marshalArticleJSON(art)
	if err != nil {
		return false, err
	}

	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO articles (
			id, title, summary, body, language, region, source, url,
			image_url, media, published_at, categories, top_category,
			created_by, is_published, blocked
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (url) DO NOTHING`,
		art.ID,
		SanitizeUTF8(art.Title),
		SanitizeUTF8(art.Summary),
		SanitizeUTF8(art.Body),
		string(art.Language),
		art.Region,
		SanitizeUTF8(art.Source),
		art.URL,
		art.ImageURL,
		media,
		art.PublishedAt,
		categories,
		art.TopCategory,
		string(art.CreatedBy),
		art.IsPublished,
		art.Blocked,
	)
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// FindRecentTitles returns stored titles with publishedAt at or after
// windowStart for the given language. Blocked articles still count; they
// were ingested and should keep suppressing duplicates.
func (db *DB) FindRecentTitles(ctx context.Context, windowStart time.Time, language domain.Language) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT title FROM articles
		WHERE published_at >= $1 AND language = $2`,
		windowStart, string(language),
	)
	if err != nil {
		return nil, fmt.Errorf("query recent titles: %w", err)
	}
	defer rows.Close()

	var titles []string

	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}

		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate titles: %w", err)
	}

	return titles, nil
}

// ListArticles returns a page of articles, newest first, plus the total
// count matching the filter.
func (db *DB) ListArticles(ctx context.Context, filter ListFilter) ([]domain.Article, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	qb := psql.Select(articleColumns...).
		From("articles").
		OrderBy("published_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	qb = applyFilter(qb, filter)

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article

	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}

		articles = append(articles, art)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate articles: %w", err)
	}

	total, err := db.countArticles(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (db *DB) countArticles(ctx context.Context, filter ListFilter) (int, error) {
	qb := applyFilter(psql.Select("COUNT(*)").From("articles"), filter)

	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := db.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}

	return total, nil
}

func applyFilter(qb sq.SelectBuilder, filter ListFilter) sq.SelectBuilder {
	if filter.Language != "" {
		qb = qb.Where(sq.Eq{"language": filter.Language})
	}

	if filter.Region != "" {
		qb = qb.Where(sq.Eq{"region": filter.Region})
	}

	if filter.Category != "" {
		qb = qb.Where(sq.Eq{"top_category": filter.Category})
	}

	if filter.Source != "" {
		qb = qb.Where(sq.Eq{"source": filter.Source})
	}

	if !filter.IncludeBlocked {
		qb = qb.Where(sq.Eq{"blocked": false})
	}

	if filter.OnlyPublished {
		qb = qb.Where(sq.Eq{"is_published": true})
	}

	return qb
}

// GetArticle loads one article by ID.
func (db *DB) GetArticle(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build get query: %w", err)
	}

	art, err := scanArticle(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Article{}, ErrArticleNotFound
		}

		return domain.Article{}, err
	}

	return art, nil
}

// CreateArticle stores a manually submitted article. Returns
// ErrArticleExists when the URL is already taken.
func (db *DB) CreateArticle(ctx context.Context, art domain.Article) (domain.Article, error) {
	if art.ID == "" {
		art.ID = uuid.NewString()
	}

	inserted, err := db.UpsertIfAbsent(ctx, art)
	if err != nil {
		return domain.Article{}, err
	}

	if !inserted {
		return domain.Article{}, ErrArticleExists
	}

	return db.GetArticle(ctx, art.ID)
}

// UpdateArticle rewrites the mutable fields of an article. Any edit marks
// the record as manually curated.
func (db *DB) UpdateArticle(ctx context.Context, id string, art domain.Article) (domain.Article, error) {
	media, categories, err := marshalArticleJSON(art)
	if err != nil {
		return domain.Article{}, err
	}

	tag, err := db.Pool.Exec(ctx, `
		UPDATE articles SET
			title = $2, summary = $3, body = $4, language = $5,
			region = $6, source = $7, image_url = $8, media = $9,
			categories = $10, top_category = $11, is_published = $12,
			blocked = $13, created_by = $14, updated_at = now()
		WHERE id = $1`,
		id,
		SanitizeUTF8(art.Title),
		SanitizeUTF8(art.Summary),
		SanitizeUTF8(art.Body),
		string(art.Language),
		art.Region,
		SanitizeUTF8(art.Source),
		art.ImageURL,
		media,
		categories,
		art.TopCategory,
		art.IsPublished,
		art.Blocked,
		string(domain.ProvenanceManual),
	)
	if err != nil {
		return domain.Article{}, fmt.Errorf("update article: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.Article{}, ErrArticleNotFound
	}

	return db.GetArticle(ctx, id)
}

// DeleteArticle removes one article by ID.
func (db *DB) DeleteArticle(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}

	return nil
}

func marshalArticleJSON(art domain.Article) (media, categories []byte, err error) {
	media, err = json.Marshal(art.Media)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal media: %w", err)
	}

	if art.Categories == nil {
		art.Categories = map[string]int{}
	}

	categories, err = json.Marshal(art.Categories)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal categories: %w", err)
	}

	return media, categories, nil
}

func scanArticle(row pgx.Row) (domain.Article, error) {
	var (
		art        domain.Article
		language   string
		createdBy  string
		media      []byte
		categories []byte
	)

	err := row.Scan(
		&art.ID, &art.Title, &art.Summary, &art.Body, &language,
		&art.Region, &art.Source, &art.URL, &art.ImageURL, &media,
		&art.PublishedAt, &categories, &art.TopCategory, &createdBy,
		&art.IsPublished, &art.Blocked, &art.CreatedAt, &art.UpdatedAt,
	)
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	art.Language = domain.Language(language)
	art.CreatedBy = domain.Provenance(createdBy)

	if len(media) > 0 {
		if err := json.Unmarshal(media, &art.Media); err != nil {
			return domain.Article{}, fmt.Errorf("unmarshal media: %w", err)
		}
	}

	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &art.Categories); err != nil {
			return domain.Article{}, fmt.Errorf("unmarshal categories: %w", err)
		}
	}

	return art, nil
}
