package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/google/uuid"
)

// MemoryResumeRepository keeps documents in process memory. It enforces the
// same email uniqueness and version checks as the database.
type MemoryResumeRepository struct {
	mu   sync.RWMutex
	docs map[string]*model.Resume
}

func NewMemoryResumeRepository() *MemoryResumeRepository {
	return &MemoryResumeRepository{docs: map[string]*model.Resume{}}
}

func (r *MemoryResumeRepository) find(match func(*model.Resume) bool) (*model.Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *model.Resume
	for _, doc := range r.docs {
		if match(doc) && (best == nil || doc.UploadedAt.After(best.UploadedAt)) {
			best = doc
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best.Clone(), nil
}

func (r *MemoryResumeRepository) FindByID(_ context.Context, id string) (*model.Resume, error) {
	id = model.ResolveID(id)
	return r.find(func(d *model.Resume) bool { return d.ID == id })
}

func (r *MemoryResumeRepository) FindByEmail(_ context.Context, email string) (*model.Resume, error) {
	return r.find(func(d *model.Resume) bool { return d.Email != nil && *d.Email == email })
}

func (r *MemoryResumeRepository) FindByStorageKey(_ context.Context, key string) (*model.Resume, error) {
	return r.find(func(d *model.Resume) bool { return d.StorageKey == key })
}

// emailTaken must be called with the lock held.
func (r *MemoryResumeRepository) emailTaken(email *string, exceptID string) bool {
	if email == nil {
		return false
	}
	for id, doc := range r.docs {
		if id != exceptID && doc.Email != nil && *doc.Email == *email {
			return true
		}
	}
	return false
}

func (r *MemoryResumeRepository) Insert(_ context.Context, doc *model.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, exists := r.docs[doc.ID]; exists || r.emailTaken(doc.Email, doc.ID) {
		return ErrConflict
	}
	doc.Version = 1
	r.docs[doc.ID] = doc.Clone()
	return nil
}

func (r *MemoryResumeRepository) Update(_ context.Context, doc *model.Resume, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.docs[doc.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != expectedVersion || r.emailTaken(doc.Email, doc.ID) {
		return ErrConflict
	}
	doc.Version = expectedVersion + 1
	stored := doc.Clone()
	stored.CreatedAt = current.CreatedAt
	r.docs[doc.ID] = stored
	return nil
}

func (r *MemoryResumeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id = model.ResolveID(id)
	if _, ok := r.docs[id]; !ok {
		return ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *MemoryResumeRepository) collect(match func(*model.Resume) bool) []model.Resume {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Resume, 0, len(r.docs))
	for _, doc := range r.docs {
		if match(doc) {
			out = append(out, *doc.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}

func limitDocs(docs []model.Resume, limit int) []model.Resume {
	if limit = normalizeLimit(limit); len(docs) > limit {
		return docs[:limit]
	}
	return docs
}

func (r *MemoryResumeRepository) List(_ context.Context, limit, offset int) ([]model.Resume, error) {
	docs := r.collect(func(*model.Resume) bool { return true })
	if offset >= len(docs) {
		return []model.Resume{}, nil
	}
	return limitDocs(docs[max(offset, 0):], limit), nil
}

func (r *MemoryResumeRepository) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

func (r *MemoryResumeRepository) ListByEmail(_ context.Context, email string) ([]model.Resume, error) {
	return r.collect(func(d *model.Resume) bool { return d.Email != nil && *d.Email == email }), nil
}

func (r *MemoryResumeRepository) ListProfiles(_ context.Context, limit int) ([]model.Resume, error) {
	all := r.collect(func(*model.Resume) bool { return true })
	seen := map[string]struct{}{}
	out := make([]model.Resume, 0, len(all))
	for _, doc := range all {
		key := "id:" + doc.ID
		if doc.Email != nil {
			key = "email:" + *doc.Email
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, doc)
	}
	return limitDocs(out, limit), nil
}
