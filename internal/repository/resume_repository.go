package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/resume-profiler/internal/model"
)

var (
	ErrNotFound = errors.New("resume not found")
	// ErrConflict reports a lost compare-and-swap or a second document for
	// an email that already has one.
	ErrConflict = errors.New("resume was modified concurrently")
)

const DefaultListLimit = 100

// ResumeRepository persists resume documents. Returned documents are copies
// the caller may modify.
type ResumeRepository interface {
	FindByID(ctx context.Context, id string) (*model.Resume, error)
	FindByEmail(ctx context.Context, email string) (*model.Resume, error)
	FindByStorageKey(ctx context.Context, key string) (*model.Resume, error)
	// Insert assigns an id when empty and sets the version to 1.
	Insert(ctx context.Context, doc *model.Resume) error
	// Update writes doc only if the stored version still equals
	// expectedVersion, then bumps it.
	Update(ctx context.Context, doc *model.Resume, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	// List returns a page of documents, most recently uploaded first.
	List(ctx context.Context, limit, offset int) ([]model.Resume, error)
	Count(ctx context.Context) (int64, error)
	ListByEmail(ctx context.Context, email string) ([]model.Resume, error)
	// ListProfiles returns the most recent document per email; documents
	// without email stand alone.
	ListProfiles(ctx context.Context, limit int) ([]model.Resume, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
