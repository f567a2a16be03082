package services

import (
	"context"
	"errors"
	"testing"

	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	mem := repotest.NewMemory()
	svc := NewCategoryService(mem.Repositories().Categories, helpers.NewValidator())
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryInput{Name: "  Toys "})
	require.NoError(t, err)
	assert.Equal(t, "Toys", created.Name)
	assert.Equal(t, models.DefaultCategoryImageURL, created.ImageURL)
	assert.True(t, created.Active)

	_, err = svc.Create(ctx, CategoryInput{Name: " "})
	assert.Error(t, err)

	books, err := svc.Create(ctx, CategoryInput{Name: "Books", ImageURL: "https://cdn.example.com/books.png"})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Books", list[0].Name)

	_, err = svc.Update(ctx, created.ID, models.CategoryPatch{Active: ptr(false)})
	require.NoError(t, err)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "inactive categories are hidden")

	got, err := svc.Get(ctx, books.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/books.png", got.ImageURL)

	_, err = svc.Update(ctx, 999, models.CategoryPatch{Name: ptr("X")})
	assert.True(t, errors.Is(err, ErrNotFound))
}
