package feed

import (
	"context"
	"errors"
	"fmt"
	"time"
	"yatube/cache"
	"yatube/db"
	"yatube/models"

	"gorm.io/gorm"
)

const (
	PageSize      = 10
	groupCacheTTL = 10 * time.Minute
)

var ErrNotFound = errors.New("not found")

func postQuery() *gorm.DB {
	return db.Instance.Model(&models.Post{}).Order(models.FeedOrder)
}

// Global lists every post, newest first
func Global(page string) (Page[models.Post], error) {
	return PaginateQuery[models.Post](postQuery(), PageSize, page, models.PreloadPost)
}

// ForGroup lists the posts of the group with the given slug
func ForGroup(slug, page string) (*models.Group, Page[models.Post], error) {
	group, err := GroupBySlug(slug)
	if err != nil {
		return nil, Page[models.Post]{}, err
	}
	result, err := PaginateQuery[models.Post](postQuery().Where("group_id = ?", group.ID), PageSize, page, models.PreloadPost)
	return group, result, err
}

// ForAuthor lists the posts written by username
func ForAuthor(username, page string) (*models.User, Page[models.Post], error) {
	author, err := models.UserByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Page[models.Post]{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, Page[models.Post]{}, err
	}
	result, err := PaginateQuery[models.Post](postQuery().Where("author_id = ?", author.ID), PageSize, page, models.PreloadPost)
	return &author, result, err
}

// GroupBySlug resolves a group through the cache. Misses are never cached.
func GroupBySlug(slug string) (*models.Group, error) {
	ctx := context.Background()
	key := "group#" + slug
	var group models.Group
	if cache.Load(ctx, key, &group) && group.ID != 0 {
		return &group, nil
	}
	group, err := models.GroupBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("group %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	cache.Store(ctx, key, group, groupCacheTTL)
	return &group, nil
}
