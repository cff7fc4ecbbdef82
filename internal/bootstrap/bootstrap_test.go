package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fadilmartias/resume-profiler/internal/config"
	"github.com/fadilmartias/resume-profiler/internal/lock"
	"github.com/fadilmartias/resume-profiler/internal/repository"
	"github.com/fadilmartias/resume-profiler/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewCompletionWithoutCredential(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	svc, err := NewCompletion(context.Background(), config.ProviderGemini, &config.GeminiConfig{}, &config.OpenRouterConfig{}, log)
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = NewCompletion(context.Background(), config.ProviderOpenRouter, &config.GeminiConfig{}, &config.OpenRouterConfig{}, log)
	require.NoError(t, err)
	assert.Nil(t, svc)

	assert.Equal(t, 2, logs.FilterMessage("completion service not configured, resumes will not be parsed").Len())
}

func TestNewCompletionOpenRouter(t *testing.T) {
	svc, err := NewCompletion(context.Background(), config.ProviderOpenRouter, nil, &config.OpenRouterConfig{
		APIKey:  "key",
		Model:   "openai/gpt-4o-mini",
		BaseURL: "http://127.0.0.1:1",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.Equal(t, config.ProviderOpenRouter, svc.Provider())
}

func TestNewCompletionUnknownProvider(t *testing.T) {
	_, err := NewCompletion(context.Background(), "clippy", nil, nil, zap.NewNop())
	assert.ErrorContains(t, err, "clippy")
}

func TestNewExtractor(t *testing.T) {
	for _, backend := range []string{"", config.PDFBackendFitz, config.PDFBackendPure} {
		ex, err := NewExtractor(backend, zap.NewNop())
		require.NoError(t, err)
		assert.NotNil(t, ex)
	}
	_, err := NewExtractor("ocr", zap.NewNop())
	assert.Error(t, err)
}

func TestNewRepositoryMemory(t *testing.T) {
	repo, closeRepo, err := NewRepository(&config.DBConfig{Driver: config.DBDriverMemory}, &config.AppConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryResumeRepository{}, repo)
	assert.NoError(t, closeRepo())

	_, _, err = NewRepository(&config.DBConfig{Driver: "mongo"}, &config.AppConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewFileStore(t *testing.T) {
	files, err := NewFileStore(context.Background(), &config.StorageConfig{
		Driver:   config.StorageDriverLocal,
		LocalDir: t.TempDir(),
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, files)

	_, err = NewFileStore(context.Background(), &config.StorageConfig{Driver: config.StorageDriverS3}, zap.NewNop())
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")
}

func TestNewLocker(t *testing.T) {
	locker, closeLocker, err := NewLocker(context.Background(), &config.RedisConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &lock.KeyedMutex{}, locker)
	assert.NoError(t, closeLocker())

	mr := miniredis.RunT(t)
	locker, closeLocker, err = NewLocker(context.Background(), &config.RedisConfig{
		URL:     "redis://" + mr.Addr(),
		LockTTL: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &lock.RedisLocker{}, locker)

	unlock, err := locker.Lock(context.Background(), "email:a@x.com")
	require.NoError(t, err)
	unlock()
	assert.NoError(t, closeLocker())
}

func TestDepsCloseRunsInReverse(t *testing.T) {
	var order []int
	deps := &Deps{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return nil },
	}}
	require.NoError(t, deps.Close())
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, deps.Close())
}
