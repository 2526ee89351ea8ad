package posts

import (
	"errors"
	"expvar"
	"fmt"
	"net/url"
	"strconv"
	"time"
	"yatube/db"
	"yatube/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("post not found")

	counters = expvar.NewMap("posts")
)

type Kind int

const (
	Render       Kind = iota // show the form (possibly with Errors)
	Redirect                 // go to Location
	Unauthorized             // log in first
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not found"
	}
	return "unknown"
}

// Outcome tells the HTTP layer what to do after a create or edit attempt
type Outcome struct {
	Kind     Kind
	Location string
	Form     *Form
	Errors   Errors
	IsEdit   bool
	Post     *models.Post
}

func DetailURL(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}

func ProfileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// Create publishes a new post by identity. A nil submitted means the empty form was requested.
func Create(identity *models.User, submitted *Form) (Outcome, error) {
	if identity == nil {
		return Outcome{Kind: Unauthorized}, nil
	}
	if submitted == nil {
		return Outcome{Kind: Render, Form: &Form{}}, nil
	}
	fields, errs := submitted.Validate()
	if errs != nil {
		return Outcome{Kind: Render, Form: submitted, Errors: errs}, nil
	}
	post := models.Post{
		PubDate:  time.Now(),
		Text:     fields.Text,
		Language: fields.Language,
		AuthorID: identity.ID,
		GroupID:  fields.GroupID,
	}
	if fields.Image != nil {
		image, err := models.ImageCreate(identity.ID, fields.Image.Name, fields.MimeType, fields.Image.Data)
		if err != nil {
			return Outcome{}, fmt.Errorf("store image: %w", err)
		}
		post.ImageID = &image.ID
	}
	if err := db.Instance.Create(&post).Error; err != nil {
		return Outcome{}, fmt.Errorf("create post: %w", err)
	}
	counters.Add("created", 1)
	log.Info().Uint64("post", post.ID).Str("author", identity.Username).Msg("Post created")
	return Outcome{Kind: Redirect, Location: ProfileURL(identity.Username), Post: &post}, nil
}

// Edit changes text, group and image of an existing post. Anyone but the author is sent
// back to the post without any change.
func Edit(identity *models.User, postID uint64, submitted *Form) (Outcome, error) {
	post, err := models.PostByID(postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Outcome{Kind: NotFound}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("load post %d: %w", postID, err)
	}
	if identity == nil || identity.ID != post.AuthorID {
		counters.Add("edit_denied", 1)
		return Outcome{Kind: Redirect, Location: DetailURL(post.ID), Post: &post}, nil
	}
	if submitted == nil {
		return Outcome{Kind: Render, Form: FormFromPost(&post), IsEdit: true, Post: &post}, nil
	}
	fields, errs := submitted.Validate()
	if errs != nil {
		return Outcome{Kind: Render, Form: submitted, Errors: errs, IsEdit: true, Post: &post}, nil
	}
	updates := map[string]any{
		"text":     fields.Text,
		"language": fields.Language,
		"group_id": fields.GroupID,
	}
	switch {
	case fields.Image != nil:
		image, err := models.ImageCreate(identity.ID, fields.Image.Name, fields.MimeType, fields.Image.Data)
		if err != nil {
			return Outcome{}, fmt.Errorf("store image: %w", err)
		}
		updates["image_id"] = &image.ID
	case fields.ClearImage:
		updates["image_id"] = (*uint64)(nil)
	}
	// Replaced images stay in storage until the orphan cleanup picks them up
	if err = db.Instance.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
		return Outcome{}, fmt.Errorf("update post %d: %w", post.ID, err)
	}
	counters.Add("edited", 1)
	log.Info().Uint64("post", post.ID).Str("author", identity.Username).Msg("Post edited")
	return Outcome{Kind: Redirect, Location: DetailURL(post.ID), Post: &post}, nil
}

// Detail is a post together with the number of posts its author has written
type Detail struct {
	Post        models.Post
	AuthorPosts int64
}

func Get(id uint64) (*Detail, error) {
	post, err := models.PostByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	count, err := post.Author.CountPosts()
	if err != nil {
		return nil, fmt.Errorf("count posts of %s: %w", post.Author.Username, err)
	}
	return &Detail{Post: post, AuthorPosts: count}, nil
}
