package main

import (
	"encoding/json"
	"io"
	"log"

	"github.com/fadilmartias/resume-profiler/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "resumectl"

// cliConfig mirrors the persistent flags; each can also come from the
// environment.
type cliConfig struct {
	Debug   bool   `mapstructure:"debug"`
	JSON    bool   `mapstructure:"json"`
	Backend string `mapstructure:"backend"`
}

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "resumectl extracts resume profiles locally and manages stored resumes",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("backend", "", "pdf backend: fitz or pure (default from PDF_BACKEND)")

	for _, name := range []string{"debug", "json", "backend"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}
	for key, env := range map[string]string{"debug": "LOG_DEBUG", "json": "LOG_JSON", "backend": "PDF_BACKEND"} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}
}

func initConfig() {
	// a missing .env is normal outside development
	_ = godotenv.Load()
}

func getConfig() (*cliConfig, error) {
	var cfg cliConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newLogger writes to stderr so stdout stays machine readable.
func newLogger(cfg *cliConfig) (*zap.Logger, error) {
	return logger.New(cfg.JSON, cfg.Debug, "stderr")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
