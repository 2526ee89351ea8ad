// Package testutil builds a fresh store for every test
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"testing"
	"time"
	"yatube/cache"
	"yatube/config"
	"yatube/db"
	"yatube/models"
	"yatube/storage"
)

var nonWord = regexp.MustCompile(`\W+`)

// Setup opens a private in-memory database named after the test, a disk bucket in a temp dir
// and an empty cache
func Setup(t *testing.T) {
	t.Helper()
	if err := db.InitMemory(nonWord.ReplaceAllString(t.Name(), "_")); err != nil {
		t.Fatalf("db.InitMemory() error = %v", err)
	}
	config.MEDIA_DIR = t.TempDir()
	config.S3_BUCKET = ""
	if err := storage.Init(); err != nil {
		t.Fatalf("storage.Init() error = %v", err)
	}
	if err := models.Init(); err != nil {
		t.Fatalf("models.Init() error = %v", err)
	}
	if err := cache.Init(); err != nil {
		t.Fatalf("cache.Init() error = %v", err)
	}
	if sqlDB, err := db.Instance.DB(); err == nil {
		t.Cleanup(func() { sqlDB.Close() })
	}
}

func User(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := models.UserCreate(username, "", "secret-pass")
	if err != nil {
		t.Fatalf("UserCreate(%q) error = %v", username, err)
	}
	return &u
}

func Group(t *testing.T, title, slug string) *models.Group {
	t.Helper()
	g, err := models.GroupCreate(title, slug, "")
	if err != nil {
		t.Fatalf("GroupCreate(%q) error = %v", slug, err)
	}
	return &g
}

// Post stores a post published at pubDate
func Post(t *testing.T, author *models.User, group *models.Group, text string, pubDate time.Time) *models.Post {
	t.Helper()
	p := models.Post{PubDate: pubDate, Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := db.Instance.Create(&p).Error; err != nil {
		t.Fatalf("create post error = %v", err)
	}
	return &p
}

func CountPosts(t *testing.T) int64 {
	t.Helper()
	n, err := models.CountPosts()
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// PNG encodes a small w x h image
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
