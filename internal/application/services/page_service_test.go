package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

func TestPageSharing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.account(t, "owner", entities.RoleUser)
	friend := f.account(t, "friend", entities.RoleUser)
	stranger := f.account(t, "stranger", entities.RoleUser)

	page, err := f.pages.CreatePage(ctx, owner, ports.CreatePageRequest{
		Name: "Notes",
		Boxes: []ports.BoxInput{
			{Type: entities.BoxTypeText, Content: "hello"},
			{Type: entities.BoxTypeImage, File: &entities.PageFile{Name: "cat.png", URL: "/uploads/cat.png"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, page.Boxes, 2)
	assert.NotEqual(t, page.Boxes[0].ID, page.Boxes[1].ID)
	assert.Empty(t, page.SharedWith)

	_, err = f.pages.GetPage(ctx, friend, page.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = f.pages.SharePage(ctx, owner, page.ID, "missing-user")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	shared, err := f.pages.SharePage(ctx, owner, page.ID, friend.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{friend.ID}, shared.SharedWith)

	shared, err = f.pages.SharePage(ctx, owner, page.ID, friend.ID)
	require.NoError(t, err)
	assert.Len(t, shared.SharedWith, 1)

	got, err := f.pages.GetPage(ctx, friend, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes", got.Name)

	_, err = f.pages.UpdatePage(ctx, friend, page.ID, ports.UpdatePageRequest{Name: strPtr("Mine")})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	sharedList, err := f.pages.ListSharedPages(ctx, friend)
	require.NoError(t, err)
	require.Len(t, sharedList, 1)
	assert.Equal(t, page.ID, sharedList[0].ID)

	ownShared, err := f.pages.ListSharedPages(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, ownShared)

	_, err = f.pages.GetPage(ctx, stranger, page.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	unshared, err := f.pages.UnsharePage(ctx, owner, page.ID, friend.ID)
	require.NoError(t, err)
	assert.Empty(t, unshared.SharedWith)

	_, err = f.pages.GetPage(ctx, friend, page.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestPageUpdateReplacesBoxes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.account(t, "owner", entities.RoleUser)

	page, err := f.pages.CreatePage(ctx, owner, ports.CreatePageRequest{Name: "Draft"})
	require.NoError(t, err)
	assert.Empty(t, page.Boxes)

	_, err = f.pages.CreatePage(ctx, owner, ports.CreatePageRequest{
		Name:  "Broken",
		Boxes: []ports.BoxInput{{Type: "video"}},
	})
	assert.ErrorIs(t, err, entities.ErrValidation)

	boxes := []ports.BoxInput{{Type: entities.BoxTypeDocument, File: &entities.PageFile{Name: "brief.pdf"}}}
	updated, err := f.pages.UpdatePage(ctx, owner, page.ID, ports.UpdatePageRequest{Boxes: &boxes})
	require.NoError(t, err)
	require.Len(t, updated.Boxes, 1)
	assert.Equal(t, entities.BoxTypeDocument, updated.Boxes[0].Type)
	assert.Equal(t, "Draft", updated.Name)

	pages, err := f.pages.ListPages(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, pages, 1)

	deleted, err := f.pages.DeletePage(ctx, owner, page.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
