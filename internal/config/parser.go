package config

import (
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	PDFBackendFitz = "fitz"
	PDFBackendPure = "pure"
)

type ParserConfig struct {
	Provider     string
	PDFBackend   string
	MaxChars     int
	MinTextChars int
	Timeout      time.Duration
}

var (
	parserConfig *ParserConfig
	parserOnce   sync.Once
)

func LoadParserConfig() *ParserConfig {
	parserOnce.Do(func() {
		parserConfig = &ParserConfig{
			Provider:     getString("AI_PROVIDER", ProviderGemini),
			PDFBackend:   getString("PDF_BACKEND", PDFBackendFitz),
			MaxChars:     getInt("PARSER_MAX_CHARS", 20000),
			MinTextChars: getInt("PARSER_MIN_TEXT_CHARS", 50),
			Timeout:      time.Duration(getInt("PARSER_TIMEOUT_SECONDS", 90)) * time.Second,
		}
	})
	return parserConfig
}
