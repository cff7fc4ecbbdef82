package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormResumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *GormResumeRepository {
	return &GormResumeRepository{db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}

func (r *GormResumeRepository) findOne(ctx context.Context, query string, arg any) (*model.Resume, error) {
	var doc model.Resume
	err := r.db.WithContext(ctx).Where(query, arg).Order("uploaded_at DESC").First(&doc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *GormResumeRepository) FindByID(ctx context.Context, id string) (*model.Resume, error) {
	return r.findOne(ctx, "id = ?", model.ResolveID(id))
}

func (r *GormResumeRepository) FindByEmail(ctx context.Context, email string) (*model.Resume, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *GormResumeRepository) FindByStorageKey(ctx context.Context, key string) (*model.Resume, error) {
	return r.findOne(ctx, "storage_key = ?", key)
}

func (r *GormResumeRepository) Insert(ctx context.Context, doc *model.Resume) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Version = 1
	return translate(r.db.WithContext(ctx).Create(doc).Error)
}

func (r *GormResumeRepository) Update(ctx context.Context, doc *model.Resume, expectedVersion int64) error {
	doc.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(&model.Resume{}).
		Where("id = ? AND version = ?", doc.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(doc)
	if res.Error != nil {
		doc.Version = expectedVersion
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	doc.Version = expectedVersion
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Resume{}).Where("id = ?", doc.ID).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (r *GormResumeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Resume{}, "id = ?", model.ResolveID(id))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormResumeRepository) List(ctx context.Context, limit, offset int) ([]model.Resume, error) {
	var docs []model.Resume
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(normalizeLimit(limit)).
		Offset(max(offset, 0)).
		Find(&docs).Error
	return docs, translate(err)
}

func (r *GormResumeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Resume{}).Count(&count).Error
	return count, translate(err)
}

func (r *GormResumeRepository) ListByEmail(ctx context.Context, email string) ([]model.Resume, error) {
	var docs []model.Resume
	err := r.db.WithContext(ctx).Where("email = ?", email).Order("uploaded_at DESC").Find(&docs).Error
	return docs, translate(err)
}

func (r *GormResumeRepository) ListProfiles(ctx context.Context, limit int) ([]model.Resume, error) {
	latest := r.db.Model(&model.Resume{}).
		Select("DISTINCT ON (COALESCE(email, id)) *").
		Order("COALESCE(email, id), uploaded_at DESC")

	var docs []model.Resume
	err := r.db.WithContext(ctx).
		Table("(?) AS latest", latest).
		Order("uploaded_at DESC").
		Limit(normalizeLimit(limit)).
		Find(&docs).Error
	return docs, translate(err)
}
