package parser

import (
	"testing"

	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare object", `  {"name":"Jane"}  `, `{"name":"Jane"}`},
		{"json fence", "```json\n{\"name\":\"Jane\"}\n```", `{"name":"Jane"}`},
		{"unlabeled fence", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"uppercase label", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around fence", "Here you go:\n```json\n{\"a\":1}\n```\nThanks", `{"a":1}`},
		{"backticks inside value", "```json\n{\"a\":\"use ``` here\"}\n```", "{\"a\":\"use ``` here\"}"},
		{"other language", "```python\nprint(1)\n```", "```python\nprint(1)\n```"},
		{"no closing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"single line fence", "```json {\"a\":1} ```", `{"a":1}`},
		{"payload on fence line", "```json {\"a\":1,\n\"b\":2}\n```", "{\"a\":1,\n\"b\":2}"},
		{"unlabeled single line", "```{\"a\":1}```", `{"a":1}`},
		{"label without payload", "```jsonc\n{\"a\":1}\n```", "```jsonc\n{\"a\":1}\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFence(tt.reply))
		})
	}
}

func TestDecodeReplyFullProfile(t *testing.T) {
	reply := "```json\n" + `{
		"name": "Jane Doe",
		"email": "jane@example.com",
		"phone": 5551234,
		"location": "  ",
		"linkedin": null,
		"skills": ["Go", "PostgreSQL", 3],
		"languages": "English",
		"awards": [{"name": "Best Paper", "year": 2022}],
		"experience": [
			{"title": "Engineer", "company": "Acme", "achievements": ["Shipped 20+ features"], "team_size": 5}
		],
		"education": "BSc Computer Science",
		"publications": ["Go at scale", {"title": "Merging profiles", "venue": "GopherCon"}],
		"hobbies": null,
		"unknown": "ignored"
	}` + "\n```"

	p, err := decodeReply(reply)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", *p.Name)
	assert.Equal(t, "5551234", *p.Phone)
	assert.Nil(t, p.Location)
	assert.Nil(t, p.LinkedIn)
	assert.True(t, p.Has(model.FieldLinkedIn))
	assert.False(t, p.Has(model.FieldGitHub))

	assert.Equal(t, []string{"Go", "PostgreSQL", "3"}, p.Skills)
	assert.Equal(t, []string{"English"}, p.Languages)
	assert.Equal(t, []string{"Best Paper, 2022"}, p.Awards)
	assert.Equal(t, []string{}, p.Hobbies)
	assert.True(t, p.Has(model.FieldHobbies))

	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Acme", p.Experience[0].Company())
	assert.Equal(t, "5", p.Experience[0].String("team_size"))
	assert.Equal(t, []string{"Shipped 20+ features"}, p.Experience[0].Strings("achievements"))
	assert.Equal(t, []model.Entry{{"description": "BSc Computer Science"}}, p.Education)

	assert.Equal(t, []string{"Go at scale"}, p.Publications)
	require.Len(t, p.PublicationDetails, 1)
	assert.Equal(t, "GopherCon", p.PublicationDetails[0].String("venue"))

	assert.Equal(t, []model.Entry{}, p.Projects)
	assert.False(t, p.Has(model.FieldProjects))
}

func TestDecodeReplyMissingFieldsDefault(t *testing.T) {
	p, err := decodeReply(`{"name":"Jane"}`)
	require.NoError(t, err)

	assert.Nil(t, p.Email)
	assert.NotNil(t, p.Skills)
	assert.Empty(t, p.Skills)
	assert.NotNil(t, p.Experience)
	assert.Equal(t, []string{model.FieldName}, p.PresentFields())
}

func TestDecodeReplyToleratesFenceNoise(t *testing.T) {
	for _, reply := range []string{
		"```json {\"name\":\"A\",\"skills\":[\"Go\"]} ```",
		"```json\n{\"name\":\"A\",\"skills\":[\"Go\"]}",
		"Sure:\n```json\n{\"name\":\"A\",\"skills\":[\"Go\"]}\n```\nLet me know.",
	} {
		p, err := decodeReply(reply)
		require.NoError(t, err, reply)
		assert.Equal(t, "A", *p.Name)
		assert.Equal(t, []string{"Go"}, p.Skills)
	}
}

func TestDecodeReplyMalformed(t *testing.T) {
	for _, reply := range []string{"", "not json", `["a","b"]`, "```json\n{broken\n```", `"text"`, "```json {broken ```", "```json\n"} {
		_, err := decodeReply(reply)
		assert.ErrorIs(t, err, ErrMalformedReply, reply)
	}
}
