// Package bootstrap builds the collaborators shared by the server and the
// command line tool from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/resume-profiler/internal/config"
	"github.com/fadilmartias/resume-profiler/internal/database"
	"github.com/fadilmartias/resume-profiler/internal/lock"
	"github.com/fadilmartias/resume-profiler/internal/parser"
	"github.com/fadilmartias/resume-profiler/internal/pdftext"
	"github.com/fadilmartias/resume-profiler/internal/repository"
	"github.com/fadilmartias/resume-profiler/internal/service"
	"github.com/fadilmartias/resume-profiler/internal/storage"
	"github.com/fadilmartias/resume-profiler/internal/usecase"
	"go.uber.org/zap"
)

// Deps owns every external handle. Close releases them in reverse order.
type Deps struct {
	Repo       repository.ResumeRepository
	Files      storage.FileStore
	Completion service.CompletionService
	Locker     lock.Locker
	Extractor  *pdftext.Extractor
	Parser     *parser.Parser
	Options    usecase.Options

	closers []func() error
}

func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}

func (d *Deps) Usecase(log *zap.Logger) *usecase.ResumeUsecase {
	return usecase.NewResumeUsecase(d.Repo, d.Files, d.Extractor, d.Parser, d.Locker, d.Options, log)
}

// Build wires everything from the loaded configuration. On error the handles
// opened so far are closed.
func Build(ctx context.Context, log *zap.Logger) (deps *Deps, err error) {
	deps = &Deps{}
	defer func() {
		if err != nil {
			_ = deps.Close()
			deps = nil
		}
	}()

	parserCfg := config.LoadParserConfig()
	deps.Options = usecase.Options{
		MinTextChars: parserCfg.MinTextChars,
		ParseTimeout: parserCfg.Timeout,
	}

	if deps.Extractor, err = NewExtractor(parserCfg.PDFBackend, log); err != nil {
		return deps, err
	}
	if deps.Completion, err = NewCompletion(ctx, parserCfg.Provider, config.LoadGeminiConfig(), config.LoadOpenRouterConfig(), log); err != nil {
		return deps, err
	}
	deps.Parser = parser.NewParser(deps.Completion, parserCfg.MaxChars, log.Named("parser"))

	repo, closeRepo, err := NewRepository(config.LoadDBConfig(), config.LoadAppConfig(), log)
	if err != nil {
		return deps, err
	}
	deps.Repo = repo
	deps.closers = append(deps.closers, closeRepo)

	if deps.Files, err = NewFileStore(ctx, config.LoadStorageConfig(), log); err != nil {
		return deps, err
	}

	locker, closeLocker, err := NewLocker(ctx, config.LoadRedisConfig(), log)
	if err != nil {
		return deps, err
	}
	deps.Locker = locker
	deps.closers = append(deps.closers, closeLocker)
	return deps, nil
}

func NewExtractor(backend string, log *zap.Logger) (*pdftext.Extractor, error) {
	open, err := pdftext.OpenerFor(backend)
	if err != nil {
		return nil, err
	}
	return pdftext.NewExtractor(open, log.Named("pdftext")), nil
}

// NewCompletion returns nil without error when the provider has no
// credential; uploads then store metadata only.
func NewCompletion(ctx context.Context, provider string, gemini *config.GeminiConfig, openRouter *config.OpenRouterConfig, log *zap.Logger) (service.CompletionService, error) {
	var (
		svc service.CompletionService
		err error
	)
	switch provider {
	case "", config.ProviderGemini:
		var g *service.GeminiService
		if g, err = service.NewGeminiService(ctx, gemini, log.Named("gemini")); err == nil {
			svc = g
		}
	case config.ProviderOpenRouter:
		var o *service.OpenRouterService
		if o, err = service.NewOpenRouterService(openRouter, log.Named("openrouter")); err == nil {
			svc = o
		}
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", provider)
	}

	if errors.Is(err, service.ErrNotConfigured) {
		log.Warn("completion service not configured, resumes will not be parsed",
			zap.String("provider", provider), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func NewRepository(db *config.DBConfig, app *config.AppConfig, log *zap.Logger) (repository.ResumeRepository, func() error, error) {
	switch db.Driver {
	case config.DBDriverMemory:
		log.Warn("using in-memory resume repository, data is lost on exit")
		return repository.NewMemoryResumeRepository(), func() error { return nil }, nil
	case "", config.DBDriverPostgres:
		conn, err := database.Connect(db, app, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewResumeRepository(conn), func() error { return database.Close(conn) }, nil
	}
	return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", db.Driver)
}

func NewFileStore(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (storage.FileStore, error) {
	switch cfg.Driver {
	case "", config.StorageDriverS3:
		return storage.NewS3Store(ctx, cfg.Bucket, cfg.Region, log.Named("s3"))
	case config.StorageDriverLocal:
		return storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Driver)
}

// NewLocker returns a Redis lock when REDIS_URL is set and an in-process
// lock otherwise.
func NewLocker(ctx context.Context, cfg *config.RedisConfig, log *zap.Logger) (lock.Locker, func() error, error) {
	if cfg.URL == "" {
		log.Info("using in-process profile lock")
		return lock.NewKeyedMutex(), func() error { return nil }, nil
	}
	rdb, err := lock.ConnectRedis(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis profile lock", zap.String("addr", rdb.Options().Addr))
	return lock.NewRedisLocker(rdb, cfg.LockTTL, log.Named("lock")), rdb.Close, nil
}
