package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(email string, uploadedAt time.Time) *model.Resume {
	doc := &model.Resume{
		Upload: model.Upload{
			StorageKey: "resumes/" + uploadedAt.Format("150405") + ".pdf",
			UploadedAt: uploadedAt,
			Status:     model.StatusParsed,
		},
		ExtractedProfile: *model.NewExtractedProfile(),
		CreatedAt:        uploadedAt,
		UpdatedAt:        uploadedAt,
	}
	if email != "" {
		doc.Email = model.StringPtr(email)
	}
	return doc
}

func TestMemoryInsertAssignsIDAndVersion(t *testing.T) {
	repo := NewMemoryResumeRepository()
	doc := newDoc("a@x.com", time.Now())

	require.NoError(t, repo.Insert(context.Background(), doc))
	assert.NotEmpty(t, doc.ID)
	assert.EqualValues(t, 1, doc.Version)

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
}

func TestMemoryInsertRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newDoc("a@x.com", time.Now())))
	err := repo.Insert(ctx, newDoc("a@x.com", time.Now()))
	assert.ErrorIs(t, err, ErrConflict)

	// documents without email never collide
	require.NoError(t, repo.Insert(ctx, newDoc("", time.Now())))
	require.NoError(t, repo.Insert(ctx, newDoc("", time.Now())))
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()
	doc := newDoc("a@x.com", time.Now())
	doc.Skills = []string{"Go"}
	require.NoError(t, repo.Insert(ctx, doc))

	doc.Skills[0] = "mutated"
	got, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, got.Skills)

	got.Skills = append(got.Skills, "Rust")
	again, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, again.Skills)
}

func TestMemoryUpdateCompareAndSwap(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()
	doc := newDoc("a@x.com", time.Now())
	require.NoError(t, repo.Insert(ctx, doc))

	first, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)

	first.Name = model.StringPtr("First")
	require.NoError(t, repo.Update(ctx, first, 1))
	assert.EqualValues(t, 2, first.Version)

	second.Name = model.StringPtr("Second")
	assert.ErrorIs(t, repo.Update(ctx, second, 1), ErrConflict)

	stored, err := repo.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", *stored.Name)
	assert.EqualValues(t, 2, stored.Version)
}

func TestMemoryUpdateMissing(t *testing.T) {
	repo := NewMemoryResumeRepository()
	doc := newDoc("a@x.com", time.Now())
	doc.ID = "missing"
	assert.ErrorIs(t, repo.Update(context.Background(), doc, 1), ErrNotFound)
}

func TestMemoryUpdateRejectsTakenEmail(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, newDoc("a@x.com", time.Now())))
	other := newDoc("b@x.com", time.Now())
	require.NoError(t, repo.Insert(ctx, other))

	other.Email = model.StringPtr("a@x.com")
	assert.ErrorIs(t, repo.Update(ctx, other, 1), ErrConflict)
}

func TestMemoryDelete(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()
	doc := newDoc("a@x.com", time.Now())
	require.NoError(t, repo.Insert(ctx, doc))

	require.NoError(t, repo.Delete(ctx, doc.ID))
	assert.ErrorIs(t, repo.Delete(ctx, doc.ID), ErrNotFound)
	_, err := repo.FindByID(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryFindByStorageKey(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()
	doc := newDoc("", time.Now())
	doc.StorageKey = "resumes/abc.pdf"
	require.NoError(t, repo.Insert(ctx, doc))

	got, err := repo.FindByStorageKey(ctx, "resumes/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = repo.FindByStorageKey(ctx, "resumes/none.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListOrderAndLimit(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := newDoc("a@x.com", base)
	middle := newDoc("", base.Add(time.Hour))
	newest := newDoc("b@x.com", base.Add(2*time.Hour))
	for _, doc := range []*model.Resume{oldest, middle, newest} {
		require.NoError(t, repo.Insert(ctx, doc))
	}

	docs, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, newest.ID, docs[0].ID)
	assert.Equal(t, oldest.ID, docs[2].ID)

	docs, err = repo.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, oldest.ID, docs[0].ID)

	docs, err = repo.List(ctx, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, docs)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestMemoryListProfilesKeepsEmaillessDocuments(t *testing.T) {
	repo := NewMemoryResumeRepository()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, newDoc("a@x.com", base)))
	require.NoError(t, repo.Insert(ctx, newDoc("", base.Add(time.Minute))))
	require.NoError(t, repo.Insert(ctx, newDoc("", base.Add(2*time.Minute))))

	profiles, err := repo.ListProfiles(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, profiles, 3)

	byEmail, err := repo.ListByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)
}
