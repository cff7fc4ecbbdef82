package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profile field names as they appear in extraction replies and documents.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldLocation  = "location"
	FieldLinkedIn  = "linkedin"
	FieldGitHub    = "github"
	FieldPortfolio = "portfolio"
	FieldSummary   = "summary"

	FieldSkills       = "skills"
	FieldLanguages    = "languages"
	FieldHobbies      = "hobbies"
	FieldMemberships  = "memberships"
	FieldPatents      = "patents"
	FieldConferences  = "conferences"
	FieldAwards       = "awards"
	FieldPublications = "publications"
	FieldReferences   = "references"

	FieldEducation          = "education"
	FieldExperience         = "experience"
	FieldProjects           = "projects"
	FieldCertifications     = "certifications"
	FieldPublicationDetails = "publication_details"
	FieldVolunteerWork      = "volunteer_work"
	FieldLeadership         = "leadership"
)

var (
	ScalarFields = []string{
		FieldName, FieldEmail, FieldPhone, FieldLocation,
		FieldLinkedIn, FieldGitHub, FieldPortfolio, FieldSummary,
	}
	ListFields = []string{
		FieldSkills, FieldLanguages, FieldHobbies, FieldMemberships, FieldPatents,
		FieldConferences, FieldAwards, FieldPublications, FieldReferences,
	}
	EntryFields = []string{
		FieldEducation, FieldExperience, FieldProjects, FieldCertifications,
		FieldPublicationDetails, FieldVolunteerWork, FieldLeadership,
	}
)

// ExtractedProfile is the structured applicant data recovered from one resume.
// Lists are never nil once normalized. The presence set records which fields
// the extraction reply actually carried.
type ExtractedProfile struct {
	Name      *string `gorm:"type:text" json:"name"`
	Email     *string `gorm:"type:text;index:idx_resumes_email,unique,where:email IS NOT NULL" json:"email"`
	Phone     *string `gorm:"type:text" json:"phone"`
	Location  *string `gorm:"type:text" json:"location"`
	LinkedIn  *string `gorm:"type:text" json:"linkedin"`
	GitHub    *string `gorm:"type:text" json:"github"`
	Portfolio *string `gorm:"type:text" json:"portfolio"`
	Summary   *string `gorm:"type:text" json:"summary"`

	Skills       []string `gorm:"type:jsonb;serializer:json" json:"skills"`
	Languages    []string `gorm:"type:jsonb;serializer:json" json:"languages"`
	Hobbies      []string `gorm:"type:jsonb;serializer:json" json:"hobbies"`
	Memberships  []string `gorm:"type:jsonb;serializer:json" json:"memberships"`
	Patents      []string `gorm:"type:jsonb;serializer:json" json:"patents"`
	Conferences  []string `gorm:"type:jsonb;serializer:json" json:"conferences"`
	Awards       []string `gorm:"type:jsonb;serializer:json" json:"awards"`
	Publications []string `gorm:"type:jsonb;serializer:json" json:"publications"`
	References   []string `gorm:"type:jsonb;serializer:json" json:"references"`

	Education          []Entry `gorm:"type:jsonb;serializer:json" json:"education"`
	Experience         []Entry `gorm:"type:jsonb;serializer:json" json:"experience"`
	Projects           []Entry `gorm:"type:jsonb;serializer:json" json:"projects"`
	Certifications     []Entry `gorm:"type:jsonb;serializer:json" json:"certifications"`
	PublicationDetails []Entry `gorm:"type:jsonb;serializer:json" json:"publication_details"`
	VolunteerWork      []Entry `gorm:"type:jsonb;serializer:json" json:"volunteer_work"`
	Leadership         []Entry `gorm:"type:jsonb;serializer:json" json:"leadership"`

	ParsedAt      *time.Time `json:"parsed_at"`
	RawTextLength int        `json:"raw_text_length"`

	present map[string]struct{}
}

// NewExtractedProfile returns a normalized profile with an empty presence set.
func NewExtractedProfile() *ExtractedProfile {
	p := &ExtractedProfile{present: map[string]struct{}{}}
	p.Normalize()
	return p
}

func (p *ExtractedProfile) scalarRef(name string) **string {
	switch name {
	case FieldName:
		return &p.Name
	case FieldEmail:
		return &p.Email
	case FieldPhone:
		return &p.Phone
	case FieldLocation:
		return &p.Location
	case FieldLinkedIn:
		return &p.LinkedIn
	case FieldGitHub:
		return &p.GitHub
	case FieldPortfolio:
		return &p.Portfolio
	case FieldSummary:
		return &p.Summary
	}
	return nil
}

func (p *ExtractedProfile) listRef(name string) *[]string {
	switch name {
	case FieldSkills:
		return &p.Skills
	case FieldLanguages:
		return &p.Languages
	case FieldHobbies:
		return &p.Hobbies
	case FieldMemberships:
		return &p.Memberships
	case FieldPatents:
		return &p.Patents
	case FieldConferences:
		return &p.Conferences
	case FieldAwards:
		return &p.Awards
	case FieldPublications:
		return &p.Publications
	case FieldReferences:
		return &p.References
	}
	return nil
}

func (p *ExtractedProfile) entriesRef(name string) *[]Entry {
	switch name {
	case FieldEducation:
		return &p.Education
	case FieldExperience:
		return &p.Experience
	case FieldProjects:
		return &p.Projects
	case FieldCertifications:
		return &p.Certifications
	case FieldPublicationDetails:
		return &p.PublicationDetails
	case FieldVolunteerWork:
		return &p.VolunteerWork
	case FieldLeadership:
		return &p.Leadership
	}
	return nil
}

// Scalar returns the named scalar field, or nil when unset or unknown.
func (p *ExtractedProfile) Scalar(name string) *string {
	if ref := p.scalarRef(name); ref != nil {
		return *ref
	}
	return nil
}

// SetScalar stores a copy of v in the named scalar field.
func (p *ExtractedProfile) SetScalar(name string, v *string) error {
	ref := p.scalarRef(name)
	if ref == nil {
		return fmt.Errorf("unknown scalar field %q", name)
	}
	if v == nil {
		*ref = nil
		return nil
	}
	s := *v
	*ref = &s
	return nil
}

func (p *ExtractedProfile) List(name string) []string {
	if ref := p.listRef(name); ref != nil {
		return *ref
	}
	return nil
}

func (p *ExtractedProfile) SetList(name string, v []string) error {
	ref := p.listRef(name)
	if ref == nil {
		return fmt.Errorf("unknown list field %q", name)
	}
	*ref = append(make([]string, 0, len(v)), v...)
	return nil
}

func (p *ExtractedProfile) Entries(name string) []Entry {
	if ref := p.entriesRef(name); ref != nil {
		return *ref
	}
	return nil
}

func (p *ExtractedProfile) SetEntries(name string, v []Entry) error {
	ref := p.entriesRef(name)
	if ref == nil {
		return fmt.Errorf("unknown entry field %q", name)
	}
	*ref = cloneEntries(v)
	return nil
}

// MarkPresent records that the extraction reply supplied the named field.
func (p *ExtractedProfile) MarkPresent(name string) {
	if p.present == nil {
		p.present = map[string]struct{}{}
	}
	p.present[name] = struct{}{}
}

// Has reports whether the named field was supplied. Profiles built without a
// presence set fall back to treating any non-nil scalar or non-empty list as
// supplied.
func (p *ExtractedProfile) Has(name string) bool {
	if p.present != nil {
		_, ok := p.present[name]
		return ok
	}
	if ref := p.scalarRef(name); ref != nil {
		return *ref != nil
	}
	if ref := p.listRef(name); ref != nil {
		return len(*ref) > 0
	}
	if ref := p.entriesRef(name); ref != nil {
		return len(*ref) > 0
	}
	return false
}

// PresentFields lists the supplied fields in sorted order.
func (p *ExtractedProfile) PresentFields() []string {
	var out []string
	for _, group := range [][]string{ScalarFields, ListFields, EntryFields} {
		for _, name := range group {
			if p.Has(name) {
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// EmailKey returns the dedup identity of the profile, or "" when there is none.
// Matching is exact; only a blank value counts as missing.
func (p *ExtractedProfile) EmailKey() string {
	if p == nil || p.Email == nil || strings.TrimSpace(*p.Email) == "" {
		return ""
	}
	return *p.Email
}

// Normalize replaces nil lists with empty ones.
func (p *ExtractedProfile) Normalize() {
	for _, name := range ListFields {
		if ref := p.listRef(name); *ref == nil {
			*ref = []string{}
		}
	}
	for _, name := range EntryFields {
		if ref := p.entriesRef(name); *ref == nil {
			*ref = []Entry{}
		}
	}
}

// Clone returns a deep copy, presence set included.
func (p *ExtractedProfile) Clone() *ExtractedProfile {
	if p == nil {
		return nil
	}
	out := &ExtractedProfile{RawTextLength: p.RawTextLength}
	for _, name := range ScalarFields {
		_ = out.SetScalar(name, p.Scalar(name))
	}
	for _, name := range ListFields {
		if v := p.List(name); v != nil {
			_ = out.SetList(name, v)
		}
	}
	for _, name := range EntryFields {
		if v := p.Entries(name); v != nil {
			_ = out.SetEntries(name, v)
		}
	}
	if p.ParsedAt != nil {
		t := *p.ParsedAt
		out.ParsedAt = &t
	}
	if p.present != nil {
		out.present = make(map[string]struct{}, len(p.present))
		for k := range p.present {
			out.present[k] = struct{}{}
		}
	}
	return out
}

// StringPtr is a small helper for building profiles.
func StringPtr(s string) *string {
	return &s
}
