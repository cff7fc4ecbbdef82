package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyProfilePatch(t *testing.T) {
	p := NewExtractedProfile()
	p.Name = StringPtr("Old")
	p.Phone = StringPtr("123")

	applied, err := ApplyProfilePatch(p, map[string]any{
		"name":       "Jane Doe",
		"phone":      nil,
		"skills":     []any{"Go", "SQL"},
		"experience": []any{map[string]any{"company": "Acme", "title": "Engineer", "years": float64(3)}},
		"salary":     "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{FieldName, FieldPhone, FieldSkills, FieldExperience}, applied)
	assert.Equal(t, "Jane Doe", *p.Name)
	assert.Nil(t, p.Phone)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "3", p.Experience[0].String("years"))
}

func TestApplyProfilePatchRejectsWrongTypes(t *testing.T) {
	p := NewExtractedProfile()

	_, err := ApplyProfilePatch(p, map[string]any{"skills": "Go"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Problems)

	_, err = ApplyProfilePatch(p, map[string]any{"education": []any{"MIT"}})
	assert.ErrorAs(t, err, &verr)
}

func TestApplyProfilePatchWithoutKnownFields(t *testing.T) {
	_, err := ApplyProfilePatch(NewExtractedProfile(), map[string]any{"salary": 10})
	assert.ErrorIs(t, err, ErrEmptyPatch)
}

func TestApplyProfilePatchBlankScalarsClear(t *testing.T) {
	p := NewExtractedProfile()
	p.Email = StringPtr("jane@example.com")
	p.Name = StringPtr("Jane")

	applied, err := ApplyProfilePatch(p, map[string]any{"email": "   ", "name": "  Jane Doe "})
	require.NoError(t, err)

	assert.Equal(t, []string{FieldName, FieldEmail}, applied)
	assert.Nil(t, p.Email)
	assert.Equal(t, "Jane Doe", *p.Name)
}
