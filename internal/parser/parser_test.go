package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/resume-profiler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCompletion struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompletion) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeCompletion) Provider() string { return "fake" }

func (f *fakeCompletion) Model() string { return "fake-1" }

func TestParseSetsMetadata(t *testing.T) {
	completion := &fakeCompletion{reply: `{"name":"Jane","email":"jane@example.com","skills":["Go"]}`}
	p := NewParser(completion, 0, nil)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	p.now = func() time.Time { return fixed }

	text := "Jane Doe, résumé text"
	profile, err := p.Parse(context.Background(), text)
	require.NoError(t, err)

	require.NotNil(t, profile.ParsedAt)
	assert.Equal(t, fixed.UTC(), *profile.ParsedAt)
	assert.Equal(t, utf8.RuneCountInString(text), profile.RawTextLength)
	assert.Equal(t, "jane@example.com", *profile.Email)
	require.Len(t, completion.prompts, 1)
	assert.True(t, strings.HasSuffix(completion.prompts[0], "Resume text:\n"+text))
}

func TestParseTruncatesOnRuneBoundary(t *testing.T) {
	completion := &fakeCompletion{reply: `{}`}
	p := NewParser(completion, 5, nil)

	text := "ééééééééé"
	profile, err := p.Parse(context.Background(), text)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(completion.prompts[0], "Resume text:\nééééé"))
	assert.Equal(t, 9, profile.RawTextLength)
}

func TestParseErrors(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		_, err := NewParser(nil, 0, nil).Parse(context.Background(), "text")
		assert.ErrorIs(t, err, ErrExtractionUnconfigured)
	})

	t.Run("missing credential at call time", func(t *testing.T) {
		completion := &fakeCompletion{err: service.ErrNotConfigured}
		_, err := NewParser(completion, 0, nil).Parse(context.Background(), "text")
		assert.ErrorIs(t, err, ErrExtractionUnconfigured)
	})

	t.Run("service failure", func(t *testing.T) {
		cause := errors.New("503 unavailable")
		completion := &fakeCompletion{err: cause}
		_, err := NewParser(completion, 0, nil).Parse(context.Background(), "text")
		assert.ErrorIs(t, err, ErrServiceError)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("malformed reply", func(t *testing.T) {
		core, observed := observer.New(zapcore.WarnLevel)
		completion := &fakeCompletion{reply: "Sorry, I cannot help with that."}
		_, err := NewParser(completion, 0, zap.New(core)).Parse(context.Background(), "text")
		assert.ErrorIs(t, err, ErrMalformedReply)

		entries := observed.FilterMessage("undecodable extraction reply").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "fake", entries[0].ContextMap()["ai_provider"])
	})
}

func TestBuildPromptListsEveryField(t *testing.T) {
	prompt := BuildPrompt("TEXT")
	for _, key := range []string{
		`"name"`, `"email"`, `"phone"`, `"location"`, `"linkedin"`, `"github"`, `"portfolio"`,
		`"summary"`, `"skills"`, `"languages"`, `"education"`, `"experience"`, `"projects"`,
		`"certifications"`, `"awards"`, `"publications"`, `"volunteer_work"`, `"leadership"`,
		`"hobbies"`, `"memberships"`, `"patents"`, `"conferences"`, `"references"`,
	} {
		assert.Contains(t, prompt, key)
	}
	assert.Contains(t, prompt, "+40%")
	assert.True(t, strings.HasSuffix(prompt, "Resume text:\nTEXT"))
}
