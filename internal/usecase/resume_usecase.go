package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/resume-profiler/internal/lock"
	"github.com/fadilmartias/resume-profiler/internal/logger"
	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/fadilmartias/resume-profiler/internal/parser"
	"github.com/fadilmartias/resume-profiler/internal/pdftext"
	"github.com/fadilmartias/resume-profiler/internal/reconcile"
	"github.com/fadilmartias/resume-profiler/internal/repository"
	"github.com/fadilmartias/resume-profiler/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PDFContentType   = "application/pdf"
	StoragePrefix    = "resumes/"
	maxSaveAttempts  = 3
	defaultMinChars  = 50
	defaultParseWait = 90 * time.Second
)

var ErrInvalidUpload = errors.New("invalid upload")

type TextExtractor interface {
	Extract(data []byte) (*pdftext.Result, error)
}

type ProfileParser interface {
	Parse(ctx context.Context, text string) (*model.ExtractedProfile, error)
}

type Options struct {
	// MinTextChars is the fewest extracted characters worth sending to the
	// completion service.
	MinTextChars int
	ParseTimeout time.Duration
}

type ResumeUsecase struct {
	repo      repository.ResumeRepository
	files     storage.FileStore
	extractor TextExtractor
	parser    ProfileParser
	locker    lock.Locker
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

func NewResumeUsecase(
	repo repository.ResumeRepository,
	files storage.FileStore,
	extractor TextExtractor,
	p ProfileParser,
	locker lock.Locker,
	opts Options,
	l *zap.Logger,
) *ResumeUsecase {
	if opts.MinTextChars <= 0 {
		opts.MinTextChars = defaultMinChars
	}
	if opts.ParseTimeout <= 0 {
		opts.ParseTimeout = defaultParseWait
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &ResumeUsecase{
		repo:      repo,
		files:     files,
		extractor: extractor,
		parser:    p,
		locker:    locker,
		opts:      opts,
		logger:    logger.OrNop(l),
		now:       time.Now,
	}
}

type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

type UploadOutcome struct {
	Document *model.Resume
	Op       reconcile.Op
	// Profile is nil when extraction failed; ExtractionErr then says why.
	Profile       *model.ExtractedProfile
	ExtractionErr error
}

func ValidateUpload(in UploadInput) error {
	if in.ContentType != PDFContentType {
		return fmt.Errorf("%w: only PDF files are allowed", ErrInvalidUpload)
	}
	if !strings.EqualFold(filepath.Ext(in.Filename), ".pdf") {
		return fmt.Errorf("%w: file must have .pdf extension", ErrInvalidUpload)
	}
	if len(in.Data) == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidUpload)
	}
	return nil
}

// Upload stores the file, extracts a profile from it and saves the result.
// Extraction failures never fail the upload; the document is then saved
// with upload metadata only.
func (uc *ResumeUsecase) Upload(ctx context.Context, in UploadInput) (*UploadOutcome, error) {
	if err := ValidateUpload(in); err != nil {
		return nil, err
	}

	filename := uuid.NewString() + ".pdf"
	key := StoragePrefix + filename
	url, err := uc.files.Put(ctx, key, in.Data, PDFContentType, map[string]string{
		"original-filename": in.Filename,
	})
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	upload := model.Upload{
		Filename:         filename,
		OriginalFilename: in.Filename,
		StorageKey:       key,
		StorageURL:       url,
		ContentType:      PDFContentType,
		FileSize:         int64(len(in.Data)),
		UploadedAt:       uc.now().UTC(),
		Status:           model.StatusParsed,
	}
	log := uc.logger.With(zap.String(logger.FieldStorageKey, key))

	profile, extractErr := uc.extractProfile(ctx, in.Data)
	if extractErr != nil {
		upload.Status = model.StatusParseFailed
		upload.ParseError = extractErr.Error()
		log.Warn("resume extraction failed, saving metadata only", zap.Error(extractErr))
	}

	doc, op, err := uc.save(ctx, profile, upload)
	if err != nil {
		if delErr := uc.files.Delete(context.WithoutCancel(ctx), key); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
			log.Error("orphaned file after failed save", zap.Error(delErr))
		}
		return nil, fmt.Errorf("save resume: %w", err)
	}

	uc.logger.Info("resume uploaded", append(
		logger.UploadFields(doc.ID, doc.EmailKey(), key),
		zap.Stringer("op", op),
		zap.String("status", doc.Status),
		zap.Int64("version", doc.Version),
	)...)

	return &UploadOutcome{
		Document:      doc,
		Op:            op,
		Profile:       profile,
		ExtractionErr: extractErr,
	}, nil
}

func (uc *ResumeUsecase) extractProfile(ctx context.Context, data []byte) (*model.ExtractedProfile, error) {
	if uc.extractor == nil {
		return nil, fmt.Errorf("%w: no pdf extractor", pdftext.ErrUnreadableDocument)
	}
	res, err := uc.extractor.Extract(data)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(res.Text)); n < uc.opts.MinTextChars {
		return nil, fmt.Errorf("%w: only %d characters of text", pdftext.ErrUnreadableDocument, n)
	}
	if uc.parser == nil {
		return nil, parser.ErrExtractionUnconfigured
	}

	parseCtx, cancel := context.WithTimeout(ctx, uc.opts.ParseTimeout)
	defer cancel()
	profile, err := uc.parser.Parse(parseCtx, res.Text)
	if err != nil {
		return nil, err
	}

	if filled := profile.BackfillLinks(res.Links); len(filled) > 0 {
		uc.logger.Debug("links backfilled from document", zap.Strings("fields", filled))
	}
	return profile, nil
}

func lockKey(email, id string) string {
	if email != "" {
		return "email:" + email
	}
	return "id:" + id
}

// save reconciles profile against the stored document for its email under
// the per-email lock. Lost version races are retried.
func (uc *ResumeUsecase) save(ctx context.Context, profile *model.ExtractedProfile, upload model.Upload) (*model.Resume, reconcile.Op, error) {
	var email string
	if profile != nil {
		email = profile.EmailKey()
	}
	if email != "" {
		unlock, err := uc.locker.Lock(ctx, lockKey(email, ""))
		if err != nil {
			return nil, 0, fmt.Errorf("lock profile: %w", err)
		}
		defer unlock()
	}

	var lastErr error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		var existing *model.Resume
		if email != "" {
			found, err := uc.repo.FindByEmail(ctx, email)
			switch {
			case err == nil:
				existing = found
			case !errors.Is(err, repository.ErrNotFound):
				return nil, 0, err
			}
		}

		doc, op := reconcile.Reconcile(existing, profile, upload, uc.now().UTC())
		if op == reconcile.OpInsert {
			lastErr = uc.repo.Insert(ctx, doc)
		} else {
			lastErr = uc.repo.Update(ctx, doc, existing.Version)
		}
		if lastErr == nil {
			return doc, op, nil
		}
		if !errors.Is(lastErr, repository.ErrConflict) {
			return nil, 0, lastErr
		}
		uc.logger.Debug("resume write conflict, retrying",
			zap.String(logger.FieldEmail, email),
			zap.Int("attempt", attempt),
		)
	}
	return nil, 0, lastErr
}

// lockAll takes every distinct key in sorted order so that writers holding
// more than one key cannot deadlock.
func (uc *ResumeUsecase) lockAll(ctx context.Context, keys ...string) (func(), error) {
	keys = slices.Compact(slices.Sorted(slices.Values(keys)))
	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range keys {
		unlock, err := uc.locker.Lock(ctx, key)
		if err != nil {
			release()
			return nil, fmt.Errorf("lock profile: %w", err)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

// mutate applies fn to the document under the lock of its email, plus any
// extra keys, and writes it back, retrying when another writer got there
// first.
func (uc *ResumeUsecase) mutate(ctx context.Context, id string, keys []string, fn func(doc *model.Resume) error) (*model.Resume, error) {
	doc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock, err := uc.lockAll(ctx, append(keys, lockKey(doc.EmailKey(), doc.ID))...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		if attempt > 1 {
			if doc, err = uc.repo.FindByID(ctx, id); err != nil {
				return nil, err
			}
		}
		version := doc.Version
		if err := fn(doc); err != nil {
			return nil, err
		}
		doc.UpdatedAt = uc.now().UTC()
		if lastErr = uc.repo.Update(ctx, doc, version); lastErr == nil {
			return doc, nil
		}
		if !errors.Is(lastErr, repository.ErrConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (uc *ResumeUsecase) Get(ctx context.Context, id string) (*model.Resume, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *ResumeUsecase) GetByStorageKey(ctx context.Context, key string) (*model.Resume, error) {
	return uc.repo.FindByStorageKey(ctx, key)
}

// List returns one page of documents, newest upload first, with the total
// number of documents.
func (uc *ResumeUsecase) List(ctx context.Context, page, pageSize int) ([]model.Resume, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = repository.DefaultListLimit
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	docs, err := uc.repo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (uc *ResumeUsecase) ListProfiles(ctx context.Context, limit int) ([]model.Resume, error) {
	return uc.repo.ListProfiles(ctx, limit)
}

func (uc *ResumeUsecase) GetProfile(ctx context.Context, email string) (*model.Resume, error) {
	return uc.repo.FindByEmail(ctx, email)
}

func (uc *ResumeUsecase) ListByEmail(ctx context.Context, email string) ([]model.Resume, error) {
	return uc.repo.ListByEmail(ctx, email)
}

// UpdateProfile applies a validated field patch and returns the stored
// document with the names of the updated fields.
func (uc *ResumeUsecase) UpdateProfile(ctx context.Context, id string, patch map[string]any) (*model.Resume, []string, error) {
	if err := model.ValidateProfilePatch(patch); err != nil {
		return nil, nil, err
	}
	// A patch that moves the document to another email must also exclude
	// uploads merging into that email.
	var keys []string
	if email, ok := patch[model.FieldEmail].(string); ok && strings.TrimSpace(email) != "" {
		keys = append(keys, lockKey(strings.TrimSpace(email), ""))
	}

	var applied []string
	doc, err := uc.mutate(ctx, id, keys, func(doc *model.Resume) error {
		var err error
		applied, err = model.ApplyProfilePatch(&doc.ExtractedProfile, patch)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	uc.logger.Info("profile updated", zap.String(logger.FieldResumeID, doc.ID), zap.Strings("fields", applied))
	return doc, applied, nil
}

// ClearProfile removes every profile field and keeps the upload metadata.
func (uc *ResumeUsecase) ClearProfile(ctx context.Context, id string) (*model.Resume, error) {
	doc, err := uc.mutate(ctx, id, nil, func(doc *model.Resume) error {
		doc.ClearProfile()
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("profile cleared", zap.String(logger.FieldResumeID, doc.ID))
	return doc, nil
}

type DeleteOutcome struct {
	ResumeID      string
	StorageKey    string
	ResumeDeleted bool
	FileDeleted   bool
	FileError     string
}

// DeleteResume removes the document, then its file. A file that is already
// gone counts as deleted; other file errors are reported, not returned.
func (uc *ResumeUsecase) DeleteResume(ctx context.Context, id string) (*DeleteOutcome, error) {
	doc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, doc.ID); err != nil {
		return nil, err
	}
	out := &DeleteOutcome{ResumeID: doc.ID, StorageKey: doc.StorageKey, ResumeDeleted: true}
	log := uc.logger.With(zap.String(logger.FieldResumeID, doc.ID), zap.String(logger.FieldStorageKey, doc.StorageKey))

	if doc.StorageKey == "" {
		out.FileError = "no storage key found in resume data"
		log.Warn("deleted resume had no file")
		return out, nil
	}
	switch err := uc.files.Delete(ctx, doc.StorageKey); {
	case err == nil:
		out.FileDeleted = true
	case errors.Is(err, storage.ErrNotFound):
		out.FileDeleted = true
		log.Info("stored file already gone")
	default:
		out.FileError = err.Error()
		log.Error("stored file delete failed", zap.Error(err))
	}
	log.Info("resume deleted", zap.Bool("file_deleted", out.FileDeleted))
	return out, nil
}

// DeleteDocument removes the document and leaves its stored file in place.
func (uc *ResumeUsecase) DeleteDocument(ctx context.Context, id string) (*model.Resume, error) {
	doc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Delete(ctx, doc.ID); err != nil {
		return nil, err
	}
	uc.logger.Info("resume document deleted",
		zap.String(logger.FieldResumeID, doc.ID),
		zap.String(logger.FieldStorageKey, doc.StorageKey),
	)
	return doc, nil
}

// DeleteFile removes only the stored file of a document. It reports whether
// the file was already gone.
func (uc *ResumeUsecase) DeleteFile(ctx context.Context, id string) (*model.Resume, bool, error) {
	doc, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if doc.StorageKey == "" {
		return doc, false, fmt.Errorf("%w: resume has no storage key", storage.ErrNotFound)
	}
	switch err := uc.files.Delete(ctx, doc.StorageKey); {
	case err == nil:
		return doc, false, nil
	case errors.Is(err, storage.ErrNotFound):
		return doc, true, nil
	default:
		return nil, false, err
	}
}
