// Package reconcile merges a freshly extracted profile into the stored
// document for the same email. It performs no I/O.
package reconcile

import (
	"time"

	"github.com/fadilmartias/resume-profiler/internal/model"
)

type Op int

const (
	OpInsert Op = iota + 1
	OpUpdate
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	}
	return "unknown"
}

// Reconcile decides how an upload lands in storage. Without a stored
// document, an email or a profile the upload becomes a new document;
// otherwise it is merged into existing.
func Reconcile(existing *model.Resume, incoming *model.ExtractedProfile, upload model.Upload, now time.Time) (*model.Resume, Op) {
	if existing == nil || incoming == nil || incoming.EmailKey() == "" {
		return NewDocument(upload, incoming, now), OpInsert
	}
	return Merge(existing, incoming, upload, now), OpUpdate
}

// NewDocument builds a fresh document from the upload and the non-null
// fields of incoming, which may be nil.
func NewDocument(upload model.Upload, incoming *model.ExtractedProfile, now time.Time) *model.Resume {
	doc := &model.Resume{
		Upload:    upload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if incoming != nil {
		doc.ExtractedProfile = *incoming.Clone()
		if doc.ParsedAt == nil {
			t := now
			doc.ParsedAt = &t
		}
	}
	doc.ExtractedProfile.Normalize()
	return doc
}

// Merge folds incoming into a copy of existing:
//   - skills become the union of both, existing order first;
//   - experience gains the entries whose (company, title) is new;
//   - other fields are replaced when incoming supplied them, scalars only
//     when non-null;
//   - upload metadata is replaced and updated_at set to now.
//
// The id, created_at and version of existing are kept.
func Merge(existing *model.Resume, incoming *model.ExtractedProfile, upload model.Upload, now time.Time) *model.Resume {
	doc := existing.Clone()
	p := &doc.ExtractedProfile

	for _, name := range model.ScalarFields {
		if v := incoming.Scalar(name); v != nil && incoming.Has(name) {
			_ = p.SetScalar(name, v)
		}
	}
	for _, name := range model.ListFields {
		if name == model.FieldSkills || !incoming.Has(name) {
			continue
		}
		_ = p.SetList(name, incoming.List(name))
	}
	for _, name := range model.EntryFields {
		if name == model.FieldExperience || !incoming.Has(name) {
			continue
		}
		_ = p.SetEntries(name, incoming.Entries(name))
	}

	p.Skills = unionStrings(p.Skills, incoming.Skills)
	_ = p.SetEntries(model.FieldExperience, mergeExperience(p.Experience, incoming.Experience))

	parsedAt := now
	if incoming.ParsedAt != nil {
		parsedAt = *incoming.ParsedAt
	}
	p.ParsedAt = &parsedAt
	if incoming.RawTextLength > 0 {
		p.RawTextLength = incoming.RawTextLength
	}
	p.Normalize()

	doc.Upload = upload
	doc.UpdatedAt = now
	return doc
}

func unionStrings(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, group := range [][]string{existing, incoming} {
		for _, s := range group {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

type experienceKey struct {
	company string
	title   string
}

func mergeExperience(existing, incoming []model.Entry) []model.Entry {
	out := make([]model.Entry, 0, len(existing)+len(incoming))
	seen := make(map[experienceKey]struct{}, len(existing)+len(incoming))
	out = append(out, existing...)
	for _, e := range existing {
		seen[experienceKey{e.Company(), e.Title()}] = struct{}{}
	}
	for _, e := range incoming {
		key := experienceKey{e.Company(), e.Title()}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
