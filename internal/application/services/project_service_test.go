package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

func TestProjectFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.account(t, "user", entities.RoleUser)
	stranger := f.account(t, "stranger", entities.RoleUser)

	project, err := f.projects.CreateProject(ctx, user, ports.CreateProjectRequest{
		Name:  "Launch",
		Files: []ports.FileInput{{Name: "brief.pdf", Type: "application/pdf", Size: 2048, URL: "/uploads/brief.pdf"}},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.ProjectStatusActive, project.Status)
	assert.Equal(t, entities.DefaultProjectColor, project.Color)
	require.Len(t, project.Files, 1)
	assert.NotEmpty(t, project.Files[0].ID)
	assert.False(t, project.Files[0].UploadedAt.IsZero())

	withFile, err := f.projects.AddFile(ctx, user, project.ID, ports.FileInput{Name: "plan.md", URL: "/uploads/plan.md"})
	require.NoError(t, err)
	require.Len(t, withFile.Files, 2)
	added := withFile.Files[1]
	assert.NotEqual(t, project.Files[0].ID, added.ID)

	_, err = f.projects.AddFile(ctx, user, project.ID, ports.FileInput{Name: "no-url"})
	assert.ErrorIs(t, err, entities.ErrValidation)

	_, err = f.projects.AddFile(ctx, stranger, project.ID, ports.FileInput{Name: "x", URL: "/x"})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = f.projects.RemoveFile(ctx, user, project.ID, "unknown-file")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	trimmed, err := f.projects.RemoveFile(ctx, user, project.ID, added.ID)
	require.NoError(t, err)
	require.Len(t, trimmed.Files, 1)
	assert.Equal(t, "brief.pdf", trimmed.Files[0].Name)
}

func TestProjectUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.account(t, "user", entities.RoleUser)
	editor := f.account(t, "editor", entities.RoleEditor)

	project, err := f.projects.CreateProject(ctx, user, ports.CreateProjectRequest{Name: "Garden"})
	require.NoError(t, err)

	onHold := entities.ProjectStatusOnHold
	updated, err := f.projects.UpdateProject(ctx, user, project.ID, ports.UpdateProjectRequest{Status: &onHold})
	require.NoError(t, err)
	assert.Equal(t, entities.ProjectStatusOnHold, updated.Status)
	assert.Equal(t, "Garden", updated.Name)

	bogus := entities.ProjectStatus("archived")
	_, err = f.projects.UpdateProject(ctx, user, project.ID, ports.UpdateProjectRequest{Status: &bogus})
	assert.ErrorIs(t, err, entities.ErrValidation)

	mine, err := f.projects.CreateProject(ctx, editor, ports.CreateProjectRequest{Name: "Editor's"})
	require.NoError(t, err)
	_, err = f.projects.DeleteProject(ctx, editor, mine.ID)
	assert.ErrorIs(t, err, entities.ErrForbidden)

	listed, err := f.projects.ListProjects(ctx, user)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	deleted, err := f.projects.DeleteProject(ctx, user, project.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.projects.GetProject(ctx, user, project.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
