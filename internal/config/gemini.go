package config

import (
	"os"
	"sync"
)

type GeminiConfig struct {
	APIKey        string
	APIKeyFile    string
	Model         string
	FallbackModel string
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:        os.Getenv("GEMINI_API_KEY"),
			APIKeyFile:    os.Getenv("GEMINI_API_KEY_FILE"),
			Model:         getString("GEMINI_MODEL", "gemini-2.5-flash"),
			FallbackModel: getString("GEMINI_FALLBACK_MODEL", "gemini-flash-latest"),
		}
	})
	return geminiConfig
}
