package config

import (
	"os"
	"sync"
)

const (
	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"
)

type StorageConfig struct {
	Driver        string
	Bucket        string
	Region        string
	LocalDir      string
	PublicBaseURL string
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		storageConfig = &StorageConfig{
			Driver:        getString("STORAGE_DRIVER", StorageDriverS3),
			Bucket:        os.Getenv("S3_BUCKET_NAME"),
			Region:        getString("AWS_REGION", "us-east-1"),
			LocalDir:      getString("LOCAL_STORAGE_DIR", "./uploads"),
			PublicBaseURL: os.Getenv("LOCAL_STORAGE_BASE_URL"),
		}
	})
	return storageConfig
}
