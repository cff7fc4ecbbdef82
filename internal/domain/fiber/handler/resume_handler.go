package handler

import (
	"errors"
	"io"
	"net/url"
	"time"

	"github.com/fadilmartias/resume-profiler/internal/dto"
	"github.com/fadilmartias/resume-profiler/internal/middleware"
	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/fadilmartias/resume-profiler/internal/reconcile"
	"github.com/fadilmartias/resume-profiler/internal/repository"
	"github.com/fadilmartias/resume-profiler/internal/response"
	"github.com/fadilmartias/resume-profiler/internal/storage"
	"github.com/fadilmartias/resume-profiler/internal/usecase"
	"github.com/fadilmartias/resume-profiler/internal/util"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const MaxUploadSize = 5 * 1024 * 1024

type ResumeHandler struct {
	uc     *usecase.ResumeUsecase
	logger *zap.Logger
}

func NewResumeHandler(uc *usecase.ResumeUsecase, logger *zap.Logger) *ResumeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResumeHandler{uc: uc, logger: logger}
}

func (h *ResumeHandler) RegisterRoutes(app fiber.Router) {
	app.Post("/upload-resume", middleware.RateLimiter(10, time.Minute), h.Upload)

	resumes := app.Group("/resumes")
	resumes.Get("/", h.List)
	resumes.Get("/by-key", h.GetByStorageKey)
	resumes.Get("/id/:id", h.Get)
	resumes.Put("/:id/profile", h.UpdateProfile)
	resumes.Delete("/:id/profile", h.ClearProfile)
	resumes.Delete("/:id/file", h.DeleteFile)
	resumes.Delete("/:id/document", h.DeleteDocument)
	resumes.Delete("/:id", h.Delete)

	profiles := app.Group("/user-profiles")
	profiles.Get("/", h.ListProfiles)
	profiles.Get("/:email/resumes", h.ListByEmail)
	profiles.Get("/:email", h.GetProfile)
}

// fail maps err onto a status code and writes the error envelope.
func (h *ResumeHandler) fail(c *fiber.Ctx, message string, err error) error {
	code := fiber.StatusInternalServerError
	var verr *model.ValidationError
	var ferr *util.FormError

	switch {
	case errors.As(err, &verr), errors.As(err, &ferr),
		errors.Is(err, usecase.ErrInvalidUpload), errors.Is(err, model.ErrEmptyPatch):
		code = fiber.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		code = fiber.StatusConflict
	}
	if code == fiber.StatusInternalServerError {
		h.logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	}

	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    code,
		Message: message,
	}, err)
}

func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, "file is required", util.NewFormError("file is required", map[string]string{
			"file": "required",
		}))
	}
	if file.Size > MaxUploadSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: "file size is too large (max 5MB)",
		}, nil)
	}

	f, err := file.Open()
	if err != nil {
		return h.fail(c, "cannot read file", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return h.fail(c, "cannot read file", err)
	}

	out, err := h.uc.Upload(c.UserContext(), usecase.UploadInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidUpload) {
			return h.fail(c, err.Error(), err)
		}
		return h.fail(c, "failed to upload resume", err)
	}

	var warnings []string
	if out.ExtractionErr != nil {
		warnings = append(warnings, "profile extraction failed: "+out.ExtractionErr.Error())
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:     fiber.StatusOK,
		Message:  "Resume uploaded successfully",
		Data:     dto.NewUploadResult(out.Document, out.Profile, out.Op == reconcile.OpUpdate),
		Warnings: warnings,
	})
}

func (h *ResumeHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", repository.DefaultListLimit)
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}

	docs, total, err := h.uc.List(c.UserContext(), page, limit)
	if err != nil {
		return h.fail(c, "failed to list resumes", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:       fiber.StatusOK,
		Message:    "Success get resumes",
		Data:       docs,
		Pagination: response.NewPagination(page, limit, len(docs), total),
	})
}

func (h *ResumeHandler) Get(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "resume not found", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get resume",
		Data:    doc,
	})
}

func (h *ResumeHandler) GetByStorageKey(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return h.fail(c, "key is required", util.NewFormError("key is required", map[string]string{
			"key": "required",
		}))
	}
	doc, err := h.uc.GetByStorageKey(c.UserContext(), key)
	if err != nil {
		return h.fail(c, "resume not found", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get resume",
		Data:    doc,
	})
}

func (h *ResumeHandler) UpdateProfile(c *fiber.Ctx) error {
	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return h.fail(c, "invalid profile payload", util.NewFormError(err.Error(), map[string]string{
			"body": "must be a JSON object",
		}))
	}

	doc, applied, err := h.uc.UpdateProfile(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, "failed to update profile", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Profile updated successfully",
		Data: dto.ProfileUpdateDTO{
			ID:            doc.ID,
			UpdatedFields: applied,
			Version:       doc.Version,
			UpdatedAt:     doc.UpdatedAt,
		},
	})
}

func (h *ResumeHandler) ClearProfile(c *fiber.Ctx) error {
	doc, err := h.uc.ClearProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "failed to clear profile", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Profile data removed, resume metadata kept",
		Data:    doc,
	})
}

func (h *ResumeHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.DeleteResume(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "failed to delete resume", err)
	}
	message := "Resume deleted successfully"
	if !out.FileDeleted {
		message = "Resume deleted, stored file could not be removed"
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: message,
		Data: dto.DeleteResultDTO{
			ResumeID:      out.ResumeID,
			StorageKey:    out.StorageKey,
			ResumeDeleted: out.ResumeDeleted,
			FileDeleted:   out.FileDeleted,
			FileError:     out.FileError,
		},
	})
}

func (h *ResumeHandler) DeleteDocument(c *fiber.Ctx) error {
	doc, err := h.uc.DeleteDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "failed to delete resume document", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Resume document deleted, stored file kept",
		Data: dto.DeleteResultDTO{
			ResumeID:      doc.ID,
			StorageKey:    doc.StorageKey,
			ResumeDeleted: true,
		},
	})
}

func (h *ResumeHandler) DeleteFile(c *fiber.Ctx) error {
	doc, gone, err := h.uc.DeleteFile(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, "failed to delete stored file", err)
	}
	message := "Stored file deleted successfully"
	if gone {
		message = "Stored file not found (may have been deleted already)"
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: message,
		Data: dto.FileDeleteDTO{
			ResumeID:    doc.ID,
			StorageKey:  doc.StorageKey,
			AlreadyGone: gone,
		},
	})
}

func (h *ResumeHandler) ListProfiles(c *fiber.Ctx) error {
	docs, err := h.uc.ListProfiles(c.UserContext(), c.QueryInt("limit", repository.DefaultListLimit))
	if err != nil {
		return h.fail(c, "failed to list profiles", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get user profiles",
		Data:    docs,
		Meta:    fiber.Map{"count": len(docs)},
	})
}

func emailParam(c *fiber.Ctx) string {
	raw := c.Params("email")
	if email, err := url.PathUnescape(raw); err == nil {
		return email
	}
	return raw
}

func (h *ResumeHandler) GetProfile(c *fiber.Ctx) error {
	doc, err := h.uc.GetProfile(c.UserContext(), emailParam(c))
	if err != nil {
		return h.fail(c, "user profile not found", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get user profile",
		Data:    doc,
	})
}

func (h *ResumeHandler) ListByEmail(c *fiber.Ctx) error {
	docs, err := h.uc.ListByEmail(c.UserContext(), emailParam(c))
	if err != nil {
		return h.fail(c, "failed to list resumes", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get user resumes",
		Data:    docs,
		Meta:    fiber.Map{"count": len(docs)},
	})
}
