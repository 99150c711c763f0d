package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.account(t, "user", entities.RoleUser)
	stranger := f.account(t, "stranger", entities.RoleUser)

	category, err := f.categories.CreateCategory(ctx, user, ports.CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultCategoryColor, category.Color)
	assert.Equal(t, entities.DefaultCategoryIcon, category.Icon)

	_, err = f.categories.CreateCategory(ctx, user, ports.CreateCategoryRequest{Name: "Bad", Color: "blue"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = f.categories.CreateCategory(ctx, user, ports.CreateCategoryRequest{Name: "a name far longer than thirty characters"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	listed, err := f.categories.ListCategories(ctx, user)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// A write must be visible on the next read despite the cached list.
	updated, err := f.categories.UpdateCategory(ctx, user, category.ID, ports.UpdateCategoryRequest{
		Name:  strPtr("Office"),
		Color: strPtr("#FF0000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Office", updated.Name)

	listed, err = f.categories.ListCategories(ctx, user)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Office", listed[0].Name)

	_, err = f.categories.UpdateCategory(ctx, stranger, category.ID, ports.UpdateCategoryRequest{Name: strPtr("Hijack")})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	theirs, err := f.categories.ListCategories(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	deleted, err := f.categories.DeleteCategory(ctx, user, category.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	listed, err = f.categories.ListCategories(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDeletingCategoryKeepsTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.account(t, "user", entities.RoleUser)

	category, err := f.categories.CreateCategory(ctx, user, ports.CreateCategoryRequest{Name: "Home"})
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, user, ports.CreateTaskRequest{Title: "dishes", Category: category.ID})
	require.NoError(t, err)

	_, err = f.categories.DeleteCategory(ctx, user, category.ID)
	require.NoError(t, err)

	kept, err := f.tasks.GetTask(ctx, user, task.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, kept.Category)
}
