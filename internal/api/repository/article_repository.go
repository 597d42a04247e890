package repository

//go:generate mockgen -source=article_repository.go -destination=mocks/article_repository_mock.go -package=mocks

import (
	"context"
	"ctchen222/flaskblog/internal/api/models"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ArticleRepository defines the interface for article data operations.
type ArticleRepository interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	ListArticlesByAuthor(ctx context.Context, author string) ([]models.Article, error)
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
	CreateArticle(ctx context.Context, article *models.Article) error
	UpdateArticle(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, id int64, author string) error
}

type sqlArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new sqlx-backed ArticleRepository.
func NewArticleRepository(db *sqlx.DB) ArticleRepository {
	return &sqlArticleRepository{db: db}
}

// ListArticles returns every article, oldest first.
func (r *sqlArticleRepository) ListArticles(ctx context.Context) ([]models.Article, error) {
	ctx, span := tracer.Start(ctx, "ArticleRepository.ListArticles")
	defer span.End()

	articles := []models.Article{}
	err := r.db.SelectContext(ctx, &articles, `SELECT id, author, title, body FROM articles ORDER BY id`)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// ListArticlesByAuthor returns the articles written by author, oldest first.
func (r *sqlArticleRepository) ListArticlesByAuthor(ctx context.Context, author string) ([]models.Article, error) {
	ctx, span := tracer.Start(ctx, "ArticleRepository.ListArticlesByAuthor", trace.WithAttributes(
		attribute.String("article.author", author),
	))
	defer span.End()

	articles := []models.Article{}
	query := r.db.Rebind(`SELECT id, author, title, body FROM articles WHERE author = ? ORDER BY id`)
	if err := r.db.SelectContext(ctx, &articles, query, author); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list articles by author: %w", err)
	}
	return articles, nil
}

// GetArticle returns the article with id, or nil if there is none.
func (r *sqlArticleRepository) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	ctx, span := tracer.Start(ctx, "ArticleRepository.GetArticle", trace.WithAttributes(
		attribute.Int64("article.id", id),
	))
	defer span.End()

	var article models.Article
	query := r.db.Rebind(`SELECT id, author, title, body FROM articles WHERE id = ?`)
	if err := r.db.GetContext(ctx, &article, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return &article, nil
}

// CreateArticle inserts article and stores the generated id on it.
func (r *sqlArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	ctx, span := tracer.Start(ctx, "ArticleRepository.CreateArticle")
	defer span.End()

	query := r.db.Rebind(`INSERT INTO articles (author, title, body) VALUES (?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query, article.Author, article.Title, article.Body).Scan(&article.ID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// UpdateArticle rewrites title and body of the article matching both the id
// and the author. A missing row is not an error.
func (r *sqlArticleRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	ctx, span := tracer.Start(ctx, "ArticleRepository.UpdateArticle", trace.WithAttributes(
		attribute.Int64("article.id", article.ID),
	))
	defer span.End()

	query := r.db.Rebind(`UPDATE articles SET title = ?, body = ? WHERE id = ? AND author = ?`)
	if _, err := r.db.ExecContext(ctx, query, article.Title, article.Body, article.ID, article.Author); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update article: %w", err)
	}
	return nil
}

// DeleteArticle removes the article matching id and author. Deleting a row
// that does not exist is a no-op.
func (r *sqlArticleRepository) DeleteArticle(ctx context.Context, id int64, author string) error {
	ctx, span := tracer.Start(ctx, "ArticleRepository.DeleteArticle", trace.WithAttributes(
		attribute.Int64("article.id", id),
	))
	defer span.End()

	query := r.db.Rebind(`DELETE FROM articles WHERE id = ? AND author = ?`)
	if _, err := r.db.ExecContext(ctx, query, id, author); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}
