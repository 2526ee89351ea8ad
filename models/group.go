package models

import (
	"strings"
	"yatube/db"
)

type Group struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt   int64  `json:"-"`
	Title       string `gorm:"type:varchar(200);not null" json:"title" form:"title" validate:"required,max=200"`
	Slug        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"slug" form:"slug" validate:"required,max=50,slug"`
	Description string `gorm:"type:text" json:"description" form:"description"`
}

var ErrSlugTaken = FieldErrors{{Field: "slug", Message: "Группа с таким слагом уже существует."}}

func (g Group) String() string {
	return g.Title
}

func GroupCreate(title, slug, description string) (g Group, err error) {
	g = Group{
		Title:       strings.TrimSpace(title),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
	}
	if err = validateStruct(&g); err != nil {
		return
	}
	var count int64
	if err = db.Instance.Model(&Group{}).Where("slug = ?", g.Slug).Count(&count).Error; err != nil {
		return
	}
	if count > 0 {
		return g, ErrSlugTaken
	}
	return g, db.Instance.Create(&g).Error
}

func GroupBySlug(slug string) (g Group, err error) {
	err = db.Instance.First(&g, "slug = ?", slug).Error
	return
}

func GroupByID(id uint64) (g Group, err error) {
	err = db.Instance.First(&g, "id = ?", id).Error
	return
}

func GroupList() (groups []Group, err error) {
	err = db.Instance.Order("title ASC, id ASC").Find(&groups).Error
	return
}
