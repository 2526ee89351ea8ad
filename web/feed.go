package web

import (
	"errors"
	"net/http"
	"yatube/feed"

	"github.com/gin-gonic/gin"
)

func renderFeed(c *gin.Context, template, title string, values gin.H) {
	if wantsJSON(c) {
		renderJSON(c, http.StatusOK, values)
		return
	}
	c.HTML(http.StatusOK, template, page(c, title, values))
}

// Index is the global feed
func Index(c *gin.Context) {
	posts, err := feed.Global(c.Query("page"))
	if err != nil {
		ServerError(c, err)
		return
	}
	renderFeed(c, "index.tmpl", "Последние обновления на сайте", gin.H{"page": posts})
}

func GroupPosts(c *gin.Context) {
	group, posts, err := feed.ForGroup(c.Param("slug"), c.Query("page"))
	if errors.Is(err, feed.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	renderFeed(c, "group_list.tmpl", "Записи сообщества "+group.Title, gin.H{
		"group": group,
		"page":  posts,
	})
}

func Profile(c *gin.Context) {
	author, posts, err := feed.ForAuthor(c.Param("username"), c.Query("page"))
	if errors.Is(err, feed.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	renderFeed(c, "profile.tmpl", "Профайл пользователя "+author.Username, gin.H{
		"author": author,
		"page":   posts,
	})
}
