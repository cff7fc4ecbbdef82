package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fadilmartias/resume-profiler/internal/bootstrap"
	"github.com/fadilmartias/resume-profiler/internal/config"
	"github.com/fadilmartias/resume-profiler/internal/model"
	"github.com/fadilmartias/resume-profiler/internal/parser"
	"github.com/fadilmartias/resume-profiler/internal/pdftext"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type extractionOutput struct {
	Pages      int           `json:"pages"`
	Links      model.LinkMap `json:"links"`
	PageErrors []string      `json:"page_errors,omitempty"`
	Text       string        `json:"text"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <file.pdf>",
	Short: "Extract a profile from a local PDF and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		textOnly, err := cmd.Flags().GetBool("text-only")
		if err != nil {
			return err
		}
		return runParse(cmd.Context(), args[0], textOnly, cmd)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("text-only", false, "print the extracted text and links without calling the AI service")
}

func runParse(ctx context.Context, path string, textOnly bool, cmd *cobra.Command) error {
	cfg, err := getConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	parserCfg := config.LoadParserConfig()
	backend := cfg.Backend
	if backend == "" {
		backend = parserCfg.PDFBackend
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	extractor, err := bootstrap.NewExtractor(backend, log)
	if err != nil {
		return err
	}
	res, err := extractor.Extract(data)
	if err != nil {
		return err
	}

	if textOnly {
		out := extractionOutput{Pages: res.Pages, Links: res.Links, Text: res.Text}
		for _, pe := range res.PageErrors {
			out.PageErrors = append(out.PageErrors, pe.Error())
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(res.Text)); n < parserCfg.MinTextChars {
		return fmt.Errorf("%w: only %d characters of text", pdftext.ErrUnreadableDocument, n)
	}

	completion, err := bootstrap.NewCompletion(ctx, parserCfg.Provider, config.LoadGeminiConfig(), config.LoadOpenRouterConfig(), log)
	if err != nil {
		return err
	}
	if completion == nil {
		return errors.New("no AI provider credential configured, use --text-only or set GEMINI_API_KEY")
	}

	parseCtx, cancel := context.WithTimeout(ctx, parserCfg.Timeout)
	defer cancel()
	profile, err := parser.NewParser(completion, parserCfg.MaxChars, log).Parse(parseCtx, res.Text)
	if err != nil {
		return err
	}
	if filled := profile.BackfillLinks(res.Links); len(filled) > 0 {
		log.Debug("links backfilled from document", zap.Strings("fields", filled))
	}
	return printJSON(cmd.OutOrStdout(), profile)
}
