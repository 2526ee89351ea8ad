package handlers

import (
	"net/http"
	"strings"
	"yatube/db"
	"yatube/models"
	"yatube/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// BucketInfo is a Bucket without its credentials
type BucketInfo struct {
	ID          uint64              `json:"id"`
	Name        string              `json:"name"`
	StorageType storage.StorageType `json:"type"`
	Path        string              `json:"path"`
	Region      string              `json:"region"`
	Endpoint    string              `json:"endpoint"`
	Default     bool                `json:"default"`
}

func hasWriteAccess(bucket *storage.Bucket) error {
	st, err := storage.NewStorage(bucket)
	if err != nil {
		return err
	}
	testPath := "tmp/write-check"
	if _, err = st.Save(testPath, "text/plain", strings.NewReader("some-content")); err != nil {
		log.Warn().Err(err).Str("bucket", bucket.Name).Msg("Cannot save to bucket")
		return err
	}
	if err = st.Delete(testPath); err != nil {
		log.Warn().Err(err).Str("bucket", bucket.Name).Msg("Cannot delete from bucket")
		return err
	}
	return nil
}

func cleanupPath(in *storage.Bucket) {
	for strings.Contains(in.Path, "..") {
		in.Path = strings.ReplaceAll(in.Path, "..", "")
	}
	for strings.Contains(in.Path, "//") {
		in.Path = strings.ReplaceAll(in.Path, "//", "/")
	}
}

func BucketSave(c *gin.Context, user *models.User) {
	bucket := storage.Bucket{}
	err := c.ShouldBindWith(&bucket, binding.JSON)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	cleanupPath(&bucket)

	if bucket.Name == "" {
		c.JSON(http.StatusBadRequest, Response{"Empty bucket name"})
		return
	}
	switch bucket.StorageType {
	case storage.StorageTypeFile:
		if bucket.Path == "" {
			c.JSON(http.StatusBadRequest, Response{"Empty bucket path"})
			return
		}
		if bucket.Path[0] != '/' {
			c.JSON(http.StatusBadRequest, Response{"Path must be absolute and start with / (slash)"})
			return
		}
	case storage.StorageTypeS3:
		if bucket.S3Key == "" || bucket.S3Secret == "" {
			c.JSON(http.StatusBadRequest, Response{"'S3 Key' and 'S3 Secret' must be provided"})
			return
		}
		if bucket.Region == "" {
			bucket.Region = "us-east-1"
		}
	default:
		c.JSON(http.StatusBadRequest, Response{"'type' must be 0 (file) or 1 (s3)"})
		return
	}
	if err := hasWriteAccess(&bucket); err != nil {
		c.JSON(http.StatusForbidden, Response{"No write access to bucket: " + err.Error()})
		return
	}
	if bucket.ID == 0 {
		err = bucket.Create()
	} else {
		err = db.Instance.Save(&bucket).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	// Re-initialize storage
	if err = storage.Init(); err != nil {
		c.JSON(http.StatusInternalServerError, Response{err.Error()})
		return
	}
	log.Info().Str("bucket", bucket.Name).Str("by", user.Username).Msg("Bucket saved")
	c.JSON(http.StatusOK, OKResponse)
}

func BucketList(c *gin.Context, user *models.User) {
	buckets := []storage.Bucket{}
	if err := db.Instance.Order("id ASC").Find(&buckets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	var defaultID uint64
	if st := storage.GetDefaultStorage(); st != nil {
		defaultID = st.GetBucket().ID
	}
	c.JSON(http.StatusOK, lo.Map(buckets, func(b storage.Bucket, _ int) BucketInfo {
		return BucketInfo{
			ID:          b.ID,
			Name:        b.Name,
			StorageType: b.StorageType,
			Path:        b.Path,
			Region:      b.Region,
			Endpoint:    b.Endpoint,
			Default:     b.ID == defaultID,
		}
	}))
}
