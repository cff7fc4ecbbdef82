package parser

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/resume-profiler/internal/logger"
	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/fadilmartias/resume-profiler/internal/service"
	"go.uber.org/zap"
)

var (
	ErrExtractionUnconfigured = errors.New("structured extraction is not configured")
	ErrServiceError           = errors.New("structured extraction service failed")
	ErrMalformedReply         = errors.New("structured extraction reply is malformed")
)

const DefaultMaxChars = 20000

// Parser turns resume text into an ExtractedProfile using a completion service.
type Parser struct {
	completion service.CompletionService
	maxChars   int
	logger     *zap.Logger
	now        func() time.Time
}

func NewParser(completion service.CompletionService, maxChars int, l *zap.Logger) *Parser {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	p := &Parser{
		completion: completion,
		maxChars:   maxChars,
		logger:     logger.OrNop(l),
		now:        time.Now,
	}
	if completion != nil {
		p.logger = logger.WithFields(p.logger, logger.CommonFields(completion.Provider(), completion.Model())...)
	}
	return p
}

// Parse extracts a profile from text. Only the first maxChars runes are sent;
// raw_text_length always reports the full length.
func (p *Parser) Parse(ctx context.Context, text string) (*model.ExtractedProfile, error) {
	if p.completion == nil {
		return nil, ErrExtractionUnconfigured
	}

	rawLength := utf8.RuneCountInString(text)
	prompt := BuildPrompt(truncate(text, p.maxChars))

	start := time.Now()
	reply, err := p.completion.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %w", ErrExtractionUnconfigured, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrServiceError, err)
	}

	profile, err := decodeReply(reply)
	if err != nil {
		p.logger.Warn("undecodable extraction reply",
			zap.String("reply", logger.TruncateForLog(reply, 500)),
			zap.Error(err),
		)
		return nil, err
	}

	parsedAt := p.now().UTC()
	profile.ParsedAt = &parsedAt
	profile.RawTextLength = rawLength

	p.logger.Info("resume text parsed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("raw_text_length", rawLength),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("experience", len(profile.Experience)),
	)
	return profile, nil
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
