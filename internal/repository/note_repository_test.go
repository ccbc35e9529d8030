package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/testfixtures"
)

func TestNoteRepo(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	repo := NewNoteRepo(db)

	public := &model.Note{Content: "Exam week", ForWhom: model.NoteAudienceAll}
	require.NoError(t, repo.Create(ctx, public))
	assert.NotZero(t, public.ID)
	assert.NotEmpty(t, public.CreatedAt)
	require.NoError(t, repo.Create(ctx, &model.Note{Content: "Staff meeting", ForWhom: "staff"}))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Staff meeting", all[0].Content, "newest first")

	onlyAll, err := repo.List(ctx, model.NoteAudienceAll)
	require.NoError(t, err)
	require.Len(t, onlyAll, 1)
	assert.Equal(t, public.ID, onlyAll[0].ID)

	public.Content = "Exam week moved"
	require.NoError(t, repo.Update(ctx, public))
	got, err := repo.GetByID(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, "Exam week moved", got.Content)

	require.NoError(t, repo.Delete(ctx, public.ID))
	assert.ErrorIs(t, repo.Delete(ctx, public.ID), ErrNoteNotFound)
	assert.ErrorIs(t, repo.Update(ctx, public), ErrNoteNotFound)
	_, err = repo.GetByID(ctx, public.ID)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}
