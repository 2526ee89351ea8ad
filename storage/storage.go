package storage

import (
	"fmt"
	"io"
	"net/http"
	"yatube/config"
	"yatube/db"

	"github.com/rs/zerolog/log"
)

type StorageAPI interface {
	Save(path, mimeType string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	HasSpaceFor(size int64) bool
	GetBucket() *Bucket
}

type Storage struct {
	Bucket Bucket
}

func (s *Storage) GetBucket() *Bucket {
	return &s.Bucket
}

var (
	cachedStorage []StorageAPI
)

// Init loads all buckets. A default one is created from the configuration if there are none.
func Init() error {
	if err := db.Instance.AutoMigrate(&Bucket{}); err != nil {
		return err
	}
	cachedStorage = []StorageAPI{}
	var buckets []Bucket
	if err := db.Instance.Find(&buckets).Error; err != nil {
		return err
	}
	if len(buckets) == 0 {
		bucket := defaultBucket()
		if err := bucket.Create(); err != nil {
			return fmt.Errorf("create default bucket: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	log.Info().Int("count", len(buckets)).Msg("Storage buckets found")
	for i := range buckets {
		storage, err := NewStorage(&buckets[i])
		if err != nil {
			return err
		}
		cachedStorage = append(cachedStorage, storage)
	}
	return nil
}

func defaultBucket() Bucket {
	if config.S3_BUCKET != "" {
		return Bucket{
			Name:        config.S3_BUCKET,
			StorageType: StorageTypeS3,
			Path:        config.S3_PREFIX,
			Region:      config.S3_REGION,
			Endpoint:    config.S3_ENDPOINT,
			S3Key:       config.S3_KEY,
			S3Secret:    config.S3_SECRET,
		}
	}
	return Bucket{
		Name:        "media",
		StorageType: StorageTypeFile,
		Path:        config.MEDIA_DIR,
	}
}

func NewStorage(bucket *Bucket) (StorageAPI, error) {
	switch bucket.StorageType {
	case StorageTypeFile:
		return NewDiskStorage(bucket), nil
	case StorageTypeS3:
		return NewS3Storage(bucket), nil
	}
	return nil, fmt.Errorf("storage type unavailable for bucket %d", bucket.ID)
}

func StorageFrom(bucket *Bucket) StorageAPI {
	for _, s := range cachedStorage {
		if s.GetBucket().ID == bucket.ID {
			return s
		}
	}
	return nil
}

// GetDefaultStorage prefers S3 buckets when configured, disk otherwise
func GetDefaultStorage() StorageAPI {
	for _, s := range cachedStorage {
		if s.GetBucket().IsS3() {
			return s
		}
	}
	if len(cachedStorage) == 0 {
		return nil
	}
	return cachedStorage[0]
}
