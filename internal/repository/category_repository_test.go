package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCategoryRepoWithMock(t *testing.T) (CategoryRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewCategoryRepository(db), mock
}

func TestCategoryRepository_Create(t *testing.T) {
	repo, mock := newCategoryRepoWithMock(t)
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      "Books",
		Slug:      "books",
		CreatedAt: time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).
		WithArgs(category.ID, category.Name, category.Slug, category.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), category)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_CreateDuplicateName(t *testing.T) {
	repo, mock := newCategoryRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories")).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "categories_name_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), &domain.Category{ID: uuid.New(), Name: "Books", Slug: "books"})
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)
}

func TestCategoryRepository_FindBySlug(t *testing.T) {
	repo, mock := newCategoryRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1")).
		WithArgs("books").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}).
			AddRow(id.String(), "Books", "books", time.Now()))

	category, err := repo.FindBySlug(context.Background(), "books")
	require.NoError(t, err)
	assert.Equal(t, id, category.ID)
	assert.Equal(t, "Books", category.Name)
}

func TestCategoryRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newCategoryRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at"}))

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryRepository_DeleteUnknownID(t *testing.T) {
	repo, mock := newCategoryRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
