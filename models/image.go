package models

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"yatube/config"
	"yatube/db"
	"yatube/storage"
	"yatube/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const thumbMimeType = "image/jpeg"

var (
	ErrNoStorage = errors.New("no storage available")
	ErrNoSpace   = errors.New("not enough space in storage")
)

type Image struct {
	ID          uint64         `gorm:"primaryKey" json:"-"`
	Key         string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"key"`
	CreatedAt   int64          `gorm:"index" json:"-"`
	UserID      uint64         `gorm:"not null" json:"-"`
	User        User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	BucketID    uint64         `json:"-"`
	Bucket      storage.Bucket `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Name        string         `gorm:"type:varchar(300)" json:"name"`
	MimeType    string         `gorm:"type:varchar(50)" json:"mime_type"`
	Size        int64          `json:"size"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	ThumbSize   int64          `json:"-"`
	ThumbWidth  int            `json:"thumb_width"`
	ThumbHeight int            `json:"thumb_height"`
}

// GetPath returns the path of the original, e.g. posts/6f1c...e2.png
func (i *Image) GetPath() string {
	return i.GetPathOrThumb(false)
}

func (i *Image) GetThumbPath() string {
	return i.GetPathOrThumb(true)
}

func (i *Image) GetPathOrThumb(thumb bool) string {
	path := strings.TrimPrefix(storage.StorageLocationPosts, "/") + "/" + i.Key
	if thumb {
		// Thumbs are always JPEG
		return path + "_thumb.jpg"
	}
	return path + strings.ToLower(filepath.Ext(i.Name))
}

func (i *Image) URL() string {
	return "/media/" + i.Key
}

func (i *Image) ThumbURL() string {
	return "/media/" + i.Key + "?thumb=1"
}

func (i *Image) BeforeSave(tx *gorm.DB) (err error) {
	// Restrict the characters in Name
	var name strings.Builder
	for n, c := range i.Name {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			(c == '.' && n > 0) || (c == '-') || (c == '_') {

			name.WriteRune(c)
		} else {
			name.WriteString("_")
		}
	}
	i.Name = name.String()
	return
}

// ImageCreate stores the original and a JPEG thumbnail in the default storage.
// data must already be validated as a decodable image.
func ImageCreate(userID uint64, name, mimeType string, data []byte) (*Image, error) {
	st := storage.GetDefaultStorage()
	if st == nil {
		return nil, ErrNoStorage
	}
	if !st.HasSpaceFor(int64(len(data))) {
		return nil, ErrNoSpace
	}
	image := &Image{
		Key:      uuid.NewString(),
		UserID:   userID,
		BucketID: st.GetBucket().ID,
		Name:     name,
		MimeType: mimeType,
	}
	var thumb bytes.Buffer
	info, err := utils.CreateThumb(uint(config.THUMB_SIZE), bytes.NewReader(data), &thumb)
	if err != nil {
		return nil, fmt.Errorf("create thumb: %w", err)
	}
	image.Width, image.Height = info.OldX, info.OldY
	image.ThumbWidth, image.ThumbHeight = info.NewX, info.NewY

	if image.Size, err = st.Save(image.GetPath(), mimeType, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	if image.ThumbSize, err = st.Save(image.GetThumbPath(), thumbMimeType, &thumb); err != nil {
		_ = st.Delete(image.GetPath())
		return nil, fmt.Errorf("save thumb: %w", err)
	}
	if err = db.Instance.Create(image).Error; err != nil {
		_ = st.Delete(image.GetPath())
		_ = st.Delete(image.GetThumbPath())
		return nil, err
	}
	return image, nil
}

func ImageByKey(key string) (i Image, err error) {
	err = db.Instance.Preload("Bucket").First(&i, "key = ?", key).Error
	return
}

// Storage returns the storage the image lives in. Bucket must be preloaded.
func (i *Image) Storage() storage.StorageAPI {
	return storage.StorageFrom(&i.Bucket)
}

// Delete removes both stored files and the record. Bucket must be preloaded.
func (i *Image) Delete() error {
	if st := i.Storage(); st != nil {
		for _, path := range []string{i.GetPath(), i.GetThumbPath()} {
			if err := st.Delete(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Cannot delete image file")
			}
		}
	}
	return db.Instance.Delete(i).Error
}
