package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"ctchen222/flaskblog/internal/api/models"
	"ctchen222/flaskblog/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	pool, err := sqlx.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = pool.Close() })

	require.NoError(t, db.InitializeSchema(context.Background(), pool))
	return pool
}

func seedUser(t *testing.T, repo UserRepository, username string) *models.User {
	t.Helper()
	u := &models.User{Name: "Name " + username, Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	created := seedUser(t, repo, "ann1")
	assert.NotZero(t, created.ID)

	got, err := repo.GetUserByUsername(ctx, "ann1")
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Fatalf("GetUserByUsername mismatch (-want +got):\n%s", diff)
	}
}

func TestUserRepository_GetMissingReturnsNil(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	got, err := repo.GetUserByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_DuplicateUsernameFails(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "ann1")

	err := repo.CreateUser(context.Background(), &models.User{Name: "Other", Username: "ann1", Email: "x@y.com", PasswordHash: "h"})
	assert.Error(t, err)
}

func TestUserRepository_ValuesAreBoundNotInterpolated(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))
	seedUser(t, repo, "ann1")

	got, err := repo.GetUserByUsername(ctx, "' OR '1'='1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestArticleRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pool := newTestDB(t)
	users := NewUserRepository(pool)
	repo := NewArticleRepository(pool)
	seedUser(t, users, "ann1")
	seedUser(t, users, "bob2")

	all, err := repo.ListArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	a := &models.Article{Author: "ann1", Title: "First post", Body: "Body with 'quotes' and \"double\" and ünïcode"}
	require.NoError(t, repo.CreateArticle(ctx, a))
	require.NotZero(t, a.ID)
	require.NoError(t, repo.CreateArticle(ctx, &models.Article{Author: "bob2", Title: "Bob post", Body: "b"}))

	got, err := repo.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(a, got); diff != "" {
		t.Fatalf("GetArticle mismatch (-want +got):\n%s", diff)
	}

	all, err = repo.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.ListArticlesByAuthor(ctx, "ann1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	// An update scoped to the wrong author touches nothing.
	require.NoError(t, repo.UpdateArticle(ctx, &models.Article{ID: a.ID, Author: "bob2", Title: "hijacked", Body: "x"}))
	got, err = repo.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "First post", got.Title)

	require.NoError(t, repo.UpdateArticle(ctx, &models.Article{ID: a.ID, Author: "ann1", Title: "Edited", Body: "New body"}))
	got, err = repo.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, "New body", got.Body)

	require.NoError(t, repo.DeleteArticle(ctx, a.ID, "ann1"))
	got, err = repo.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op.
	require.NoError(t, repo.DeleteArticle(ctx, a.ID, "ann1"))
}

func TestArticleRepository_AuthorMustExist(t *testing.T) {
	repo := NewArticleRepository(newTestDB(t))

	err := repo.CreateArticle(context.Background(), &models.Article{Author: "ghost", Title: "t", Body: "b"})
	assert.Error(t, err)
}

func TestRepositories_PropagateStoreFailures(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()
	pool := sqlx.NewDb(mockDB, "sqlmock")

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, username, email, password FROM users WHERE username = ?")).
		WithArgs("ann1").
		WillReturnError(boom)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, author, title, body FROM articles ORDER BY id")).
		WillReturnError(boom)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles WHERE id = ? AND author = ?")).
		WithArgs(int64(7), "ann1").
		WillReturnError(boom)

	_, err = NewUserRepository(pool).GetUserByUsername(context.Background(), "ann1")
	assert.ErrorIs(t, err, boom)

	articles := NewArticleRepository(pool)
	_, err = articles.ListArticles(context.Background())
	assert.ErrorIs(t, err, boom)

	err = articles.DeleteArticle(context.Background(), 7, "ann1")
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
