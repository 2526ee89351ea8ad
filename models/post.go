package models

import (
	"time"
	"yatube/db"
	"yatube/utils"

	"gorm.io/gorm"
)

const postTitleLength = 15

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PubDate   time.Time `gorm:"index;not null" json:"pub_date"` // set once on creation
	UpdatedAt time.Time `json:"-"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Language  string    `gorm:"type:varchar(8)" json:"language"`
	AuthorID  uint64    `gorm:"index;not null" json:"-"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID   *uint64   `gorm:"index" json:"-"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	ImageID   *uint64   `json:"-"`
	Image     *Image    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"image"`
}

func (p Post) String() string {
	return utils.Truncate(p.Text, postTitleLength)
}

// FeedOrder is the only ordering posts are listed with: newest first, insertion order on ties
const FeedOrder = "pub_date DESC, id DESC"

// PreloadPost loads everything a rendered post needs
func PreloadPost(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("Group").Preload("Image")
}

func PostByID(id uint64) (p Post, err error) {
	err = PreloadPost(db.Instance).First(&p, "id = ?", id).Error
	return
}

func CountPosts() (count int64, err error) {
	err = db.Instance.Model(&Post{}).Count(&count).Error
	return
}
