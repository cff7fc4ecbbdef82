package dto

import (
	"time"

	"github.com/fadilmartias/resume-profiler/internal/model"
)

// ParsedSummaryDTO is the short view of a fresh extraction returned by uploads.
type ParsedSummaryDTO struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	SkillsCount     int     `json:"skills_count"`
	ExperienceCount int     `json:"experience_count"`
	EducationCount  int     `json:"education_count"`
}

type UploadResultDTO struct {
	ID               string            `json:"id"`
	Filename         string            `json:"filename"`
	OriginalFilename string            `json:"original_filename"`
	StorageKey       string            `json:"storage_key"`
	StorageURL       string            `json:"storage_url"`
	FileSize         int64             `json:"file_size"`
	Status           string            `json:"status"`
	ParseError       string            `json:"parse_error,omitempty"`
	Merged           bool              `json:"merged"`
	ParsedData       *ParsedSummaryDTO `json:"parsed_data,omitempty"`
}

// NewUploadResult describes a saved upload. profile is the extraction of this
// upload alone and may be nil.
func NewUploadResult(doc *model.Resume, profile *model.ExtractedProfile, merged bool) UploadResultDTO {
	out := UploadResultDTO{
		ID:               doc.ID,
		Filename:         doc.Filename,
		OriginalFilename: doc.OriginalFilename,
		StorageKey:       doc.StorageKey,
		StorageURL:       doc.StorageURL,
		FileSize:         doc.FileSize,
		Status:           doc.Status,
		ParseError:       doc.ParseError,
		Merged:           merged,
	}
	if profile != nil {
		out.ParsedData = &ParsedSummaryDTO{
			Name:            profile.Name,
			Email:           profile.Email,
			Phone:           profile.Phone,
			SkillsCount:     len(profile.Skills),
			ExperienceCount: len(profile.Experience),
			EducationCount:  len(profile.Education),
		}
	}
	return out
}

type ProfileUpdateDTO struct {
	ID            string    `json:"id"`
	UpdatedFields []string  `json:"updated_fields"`
	Version       int64     `json:"version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DeleteResultDTO struct {
	ResumeID      string `json:"resume_id"`
	StorageKey    string `json:"storage_key,omitempty"`
	ResumeDeleted bool   `json:"resume_deleted"`
	FileDeleted   bool   `json:"file_deleted"`
	FileError     string `json:"file_error,omitempty"`
}

type FileDeleteDTO struct {
	ResumeID    string `json:"resume_id"`
	StorageKey  string `json:"storage_key"`
	AlreadyGone bool   `json:"already_gone"`
}
