package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/resume-profiler/internal/logger"
	"github.com/fadilmartias/resume-profiler/internal/model"
	"go.uber.org/zap"
)

var ErrUnreadableDocument = errors.New("unreadable document")

const (
	StageText  = "text"
	StageLinks = "links"
)

// PageError reports a failure on one page. Page is one-based.
type PageError struct {
	Page  int
	Stage string
	Err   error
}

func (e PageError) Error() string {
	return fmt.Sprintf("page %d %s: %v", e.Page, e.Stage, e.Err)
}

func (e PageError) Unwrap() error {
	return e.Err
}

// Result is the output of one extraction. Text already carries the
// extracted URL block.
type Result struct {
	Text       string
	Links      model.LinkMap
	Pages      int
	PageErrors []PageError
}

type Extractor struct {
	open   Opener
	logger *zap.Logger
}

func NewExtractor(open Opener, l *zap.Logger) *Extractor {
	if open == nil {
		open = OpenFitz
	}
	return &Extractor{open: open, logger: logger.OrNop(l)}
}

// Extract pulls page text and link annotations from a PDF. It fails with
// ErrUnreadableDocument when the bytes cannot be opened, there are no pages,
// or no page yields text or links. Per-page failures are collected on the
// result.
func (e *Extractor) Extract(data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnreadableDocument)
	}

	doc, err := e.open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if numPages <= 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUnreadableDocument)
	}

	result := &Result{Pages: numPages}
	var pages, annotations []string

	for n := 0; n < numPages; n++ {
		text, err := doc.Text(n)
		if err != nil {
			result.PageErrors = append(result.PageErrors, PageError{Page: n + 1, Stage: StageText, Err: err})
			e.logger.Warn("page text extraction failed", zap.Int("page", n+1), zap.Error(err))
		} else if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}

		uris, err := doc.Links(n)
		if err != nil {
			result.PageErrors = append(result.PageErrors, PageError{Page: n + 1, Stage: StageLinks, Err: err})
			e.logger.Debug("page link annotations unavailable", zap.Int("page", n+1), zap.Error(err))
			continue
		}
		annotations = append(annotations, uris...)
	}

	if len(pages) == 0 && len(annotations) == 0 {
		if len(result.PageErrors) > 0 {
			return nil, fmt.Errorf("%w: no readable pages: %w", ErrUnreadableDocument, result.PageErrors[0])
		}
		return nil, fmt.Errorf("%w: no text found", ErrUnreadableDocument)
	}

	body := strings.Join(pages, "\n")
	result.Links = BuildLinkMap(annotations, ScanText(body))
	result.Text = body + FormatLinkBlock(result.Links)

	e.logger.Debug("pdf extracted",
		zap.Int("pages", numPages),
		zap.Int("chars", len([]rune(result.Text))),
		zap.Int("annotations", len(annotations)),
		zap.Int("page_errors", len(result.PageErrors)),
	)
	return result, nil
}
