package model

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed profile_patch.schema.json
var profilePatchSchema string

var (
	ErrEmptyPatch = errors.New("patch contains no updatable profile fields")

	patchSchema     *gojsonschema.Schema
	patchSchemaErr  error
	patchSchemaOnce sync.Once
)

// ValidationError lists every schema violation of a patch.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("profile patch validation failed: %s", strings.Join(e.Problems, "; "))
}

// Details is rendered as the details block of an error response.
func (e *ValidationError) Details() any {
	return e.Problems
}

func loadPatchSchema() (*gojsonschema.Schema, error) {
	patchSchemaOnce.Do(func() {
		patchSchema, patchSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(profilePatchSchema))
	})
	return patchSchema, patchSchemaErr
}

// ValidateProfilePatch checks the types of the known profile fields in patch.
// Unknown keys are ignored.
func ValidateProfilePatch(patch map[string]any) error {
	schema, err := loadPatchSchema()
	if err != nil {
		return fmt.Errorf("loading profile patch schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewGoLoader(patch))
	if err != nil {
		return fmt.Errorf("validating profile patch: %w", err)
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, e := range res.Errors() {
		verr.Problems = append(verr.Problems, e.String())
	}
	return verr
}

// ApplyProfilePatch validates patch and writes the allowed fields it carries
// onto p. It returns the applied field names.
func ApplyProfilePatch(p *ExtractedProfile, patch map[string]any) ([]string, error) {
	if err := ValidateProfilePatch(patch); err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range ScalarFields {
		v, ok := patch[name]
		if !ok {
			continue
		}
		// Blank strings clear the field so an emptied email stays NULL.
		var s *string
		if str, isString := v.(string); isString {
			if str = strings.TrimSpace(str); str != "" {
				s = &str
			}
		}
		if err := p.SetScalar(name, s); err != nil {
			return nil, err
		}
		applied = append(applied, name)
	}
	for _, name := range ListFields {
		v, ok := patch[name]
		if !ok {
			continue
		}
		if err := p.SetList(name, toStrings(v)); err != nil {
			return nil, err
		}
		applied = append(applied, name)
	}
	for _, name := range EntryFields {
		v, ok := patch[name]
		if !ok {
			continue
		}
		if err := p.SetEntries(name, toEntries(v)); err != nil {
			return nil, err
		}
		applied = append(applied, name)
	}

	if len(applied) == 0 {
		return nil, ErrEmptyPatch
	}
	return applied, nil
}

func toStrings(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

func toEntries(v any) []Entry {
	out := []Entry{}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, NormalizeEntry(m))
			}
		}
	case []map[string]any:
		for _, m := range val {
			out = append(out, NormalizeEntry(m))
		}
	case []Entry:
		for _, e := range val {
			out = append(out, NormalizeEntry(e))
		}
	}
	return out
}
