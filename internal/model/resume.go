package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusUploaded    = "uploaded"
	StatusParsed      = "parsed"
	StatusParseFailed = "parse_failed"
)

// Upload is the metadata of one stored resume file.
type Upload struct {
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFilename string    `gorm:"type:text" json:"original_filename"`
	StorageKey       string    `gorm:"type:text;index:idx_resumes_storage_key" json:"storage_key"`
	StorageURL       string    `gorm:"type:text" json:"storage_url"`
	ContentType      string    `gorm:"type:varchar(100)" json:"content_type"`
	FileSize         int64     `json:"file_size"`
	UploadedAt       time.Time `gorm:"index:idx_resumes_uploaded_at" json:"uploaded_at"`
	Status           string    `gorm:"type:varchar(50)" json:"status"`
	ParseError       string    `gorm:"type:text" json:"parse_error,omitempty"`
}

// Resume is the persisted document: the latest upload metadata merged with
// the applicant profile accumulated for one email. Version increments on
// every write and guards concurrent updates.
type Resume struct {
	ID string `gorm:"type:text;primaryKey" json:"id"`
	Upload
	ExtractedProfile
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
	Version   int64     `gorm:"not null;default:1" json:"version"`
}

func (r *Resume) TableName() string {
	return "resumes"
}

// Clone returns a deep copy of the document.
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	out := *r
	out.ExtractedProfile = *r.ExtractedProfile.Clone()
	return &out
}

// ClearProfile drops every profile field, keeping the upload metadata.
func (r *Resume) ClearProfile() {
	r.ExtractedProfile = ExtractedProfile{}
	r.ExtractedProfile.Normalize()
}

// ResolveID canonicalizes a document id. UUIDs are returned in their
// canonical form, anything else as the trimmed input.
func ResolveID(raw string) string {
	raw = strings.TrimSpace(raw)
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return raw
}
