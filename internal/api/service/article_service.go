package service

import (
	"context"
	"ctchen222/flaskblog/internal/api/models"
	"ctchen222/flaskblog/internal/api/repository"
	"ctchen222/flaskblog/internal/metrics"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrArticleNotFound = errors.New("invalid article id")
	ErrNotArticleOwner = errors.New("article belongs to another user")
)

// ArticleService defines the interface for article-related business logic.
type ArticleService interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	ListArticlesByAuthor(ctx context.Context, author string) ([]models.Article, error)
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
	ArticleForEdit(ctx context.Context, id int64, username string) (*models.Article, error)
	CreateArticle(ctx context.Context, author string, form *models.ArticleForm) (*models.Article, error)
	UpdateArticle(ctx context.Context, id int64, username string, form *models.ArticleForm) error
	DeleteArticle(ctx context.Context, id int64, username string) error
}

type articleService struct {
	articleRepo repository.ArticleRepository
}

// NewArticleService creates a new ArticleService.
func NewArticleService(articleRepo repository.ArticleRepository) ArticleService {
	return &articleService{articleRepo: articleRepo}
}

func (s *articleService) ListArticles(ctx context.Context) ([]models.Article, error) {
	return s.articleRepo.ListArticles(ctx)
}

func (s *articleService) ListArticlesByAuthor(ctx context.Context, author string) ([]models.Article, error) {
	return s.articleRepo.ListArticlesByAuthor(ctx, author)
}

// GetArticle returns ErrArticleNotFound when no article has the id.
func (s *articleService) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.articleRepo.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// ArticleForEdit loads an article for its owner.
func (s *articleService) ArticleForEdit(ctx context.Context, id int64, username string) (*models.Article, error) {
	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Author != username {
		return nil, ErrNotArticleOwner
	}
	return article, nil
}

func (s *articleService) CreateArticle(ctx context.Context, author string, form *models.ArticleForm) (*models.Article, error) {
	ctx, span := tracer.Start(ctx, "ArticleService.CreateArticle", trace.WithAttributes(
		attribute.String("article.author", author),
	))
	defer span.End()

	article := &models.Article{
		Author: author,
		Title:  form.Title,
		Body:   form.Body,
	}
	if err := s.articleRepo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}

	metrics.RecordArticleOperation(metrics.OperationCreate)
	return article, nil
}

// UpdateArticle rewrites an article owned by username. Updating an id that
// does not exist is a silent no-op.
func (s *articleService) UpdateArticle(ctx context.Context, id int64, username string, form *models.ArticleForm) error {
	ctx, span := tracer.Start(ctx, "ArticleService.UpdateArticle", trace.WithAttributes(
		attribute.Int64("article.id", id),
	))
	defer span.End()

	if err := s.checkOwner(ctx, id, username); err != nil {
		if errors.Is(err, ErrArticleNotFound) {
			return nil
		}
		return err
	}

	article := &models.Article{ID: id, Author: username, Title: form.Title, Body: form.Body}
	if err := s.articleRepo.UpdateArticle(ctx, article); err != nil {
		return err
	}

	metrics.RecordArticleOperation(metrics.OperationUpdate)
	return nil
}

// DeleteArticle removes an article owned by username. Deleting an id that
// does not exist is a no-op, so repeated deletes never fail.
func (s *articleService) DeleteArticle(ctx context.Context, id int64, username string) error {
	ctx, span := tracer.Start(ctx, "ArticleService.DeleteArticle", trace.WithAttributes(
		attribute.Int64("article.id", id),
	))
	defer span.End()

	if err := s.checkOwner(ctx, id, username); err != nil {
		if errors.Is(err, ErrArticleNotFound) {
			return nil
		}
		return err
	}

	if err := s.articleRepo.DeleteArticle(ctx, id, username); err != nil {
		return err
	}

	metrics.RecordArticleOperation(metrics.OperationDelete)
	return nil
}

func (s *articleService) checkOwner(ctx context.Context, id int64, username string) error {
	_, err := s.ArticleForEdit(ctx, id, username)
	return err
}
