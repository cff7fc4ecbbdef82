package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractedProfileListsAreEmptyNotNil(t *testing.T) {
	p := NewExtractedProfile()

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, name := range append(append([]string{}, ListFields...), EntryFields...) {
		assert.Equal(t, []any{}, decoded[name], name)
	}
	assert.Nil(t, decoded[FieldName])
}

func TestHasUsesPresenceSet(t *testing.T) {
	p := NewExtractedProfile()
	assert.False(t, p.Has(FieldSkills))

	p.MarkPresent(FieldSkills)
	assert.True(t, p.Has(FieldSkills))
	assert.False(t, p.Has(FieldName))
}

func TestHasFallsBackToValues(t *testing.T) {
	p := &ExtractedProfile{Name: StringPtr("Jane"), Skills: []string{"Go"}}

	assert.True(t, p.Has(FieldName))
	assert.True(t, p.Has(FieldSkills))
	assert.False(t, p.Has(FieldPhone))
	assert.False(t, p.Has(FieldExperience))
	assert.Equal(t, []string{FieldName, FieldSkills}, p.PresentFields())
}

func TestEmailKey(t *testing.T) {
	assert.Equal(t, "", (&ExtractedProfile{}).EmailKey())
	assert.Equal(t, "", (&ExtractedProfile{Email: StringPtr("  ")}).EmailKey())
	assert.Equal(t, "Jane@Example.com", (&ExtractedProfile{Email: StringPtr("Jane@Example.com")}).EmailKey())

	var nilProfile *ExtractedProfile
	assert.Equal(t, "", nilProfile.EmailKey())
}

func TestCloneIsDeep(t *testing.T) {
	parsed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := NewExtractedProfile()
	p.Name = StringPtr("Jane")
	p.Skills = []string{"Go"}
	p.Experience = []Entry{{"company": "Acme", "highlights": []string{"a"}}}
	p.ParsedAt = &parsed
	p.MarkPresent(FieldName)

	c := p.Clone()
	*c.Name = "John"
	c.Skills[0] = "Rust"
	c.Experience[0]["company"] = "Other"
	c.Experience[0]["highlights"].([]string)[0] = "b"

	assert.Equal(t, "Jane", *p.Name)
	assert.Equal(t, []string{"Go"}, p.Skills)
	assert.Equal(t, "Acme", p.Experience[0].Company())
	assert.Equal(t, []string{"a"}, p.Experience[0].Strings("highlights"))
	assert.True(t, c.Has(FieldName))
	assert.False(t, c.Has(FieldSkills))
}

func TestAccessorsRejectUnknownFields(t *testing.T) {
	p := NewExtractedProfile()
	assert.Error(t, p.SetScalar("salary", StringPtr("x")))
	assert.Error(t, p.SetList("salary", nil))
	assert.Error(t, p.SetEntries("salary", nil))
	assert.Nil(t, p.Scalar("salary"))
}

func TestNormalizeEntry(t *testing.T) {
	e := NormalizeEntry(map[string]any{
		"company":    "Acme",
		"year":       float64(2021),
		"gpa":        3.5,
		"current":    true,
		"skip":       nil,
		"highlights": []any{"built", float64(3), nil},
		"nested":     map[string]any{"a": "b"},
	})

	assert.Equal(t, "Acme", e.Company())
	assert.Equal(t, "2021", e.String("year"))
	assert.Equal(t, "3.5", e.String("gpa"))
	assert.Equal(t, "true", e.String("current"))
	assert.NotContains(t, e, "skip")
	assert.Equal(t, []string{"built", "3"}, e.Strings("highlights"))
	assert.Equal(t, `{"a":"b"}`, e.String("nested"))
	assert.Equal(t, "built, 3", e.String("highlights"))
}

func TestEntryStringsAfterJSONRoundTrip(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Engineer","tags":["go","sql"]}`), &e))

	assert.Equal(t, "Engineer", e.Title())
	assert.Equal(t, []string{"go", "sql"}, e.Strings("tags"))
	assert.Equal(t, []string{"Engineer"}, e.Strings("title"))
	assert.Nil(t, e.Strings("missing"))
}
