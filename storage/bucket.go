package storage

import (
	"os"
	"strings"
	"yatube/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

const StorageLocationPosts = "/posts"

type Bucket struct {
	ID          uint64      `gorm:"primaryKey" json:"id"`
	CreatedAt   int64       `json:"-"`
	UpdatedAt   int64       `json:"-"`
	Name        string      `gorm:"type:varchar(200)" json:"name"` // S3 bucket name in case of S3
	StorageType StorageType `json:"type"`
	Path        string      `gorm:"type:varchar(500)" json:"path"` // Path on a drive or a prefix in a S3 bucket
	Region      string      `gorm:"type:varchar(50)" json:"region"`
	Endpoint    string      `gorm:"type:varchar(300)" json:"endpoint"`
	S3Key       string      `gorm:"type:varchar(300)" json:"s3key"`
	S3Secret    string      `gorm:"type:varchar(300)" json:"s3secret"`
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

func (b *Bucket) Create() error {
	err := db.Instance.Create(b).Error
	if err != nil {
		return err
	}
	if b.StorageType == StorageTypeFile {
		// Pre-create locations on disk
		if err = os.MkdirAll(b.Path+StorageLocationPosts, 0777); err != nil {
			return err
		}
	}
	return nil
}

// GetRemotePath prepends the bucket prefix (if any) to path
func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.NewConfig().
		WithRegion(b.Region).
		WithCredentials(credentials.NewStaticCredentials(b.S3Key, b.S3Secret, ""))
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}
