package web

import (
	"errors"
	"io"
	"net/http"
	"yatube/auth"
	"yatube/config"
	"yatube/handlers"
	"yatube/models"
	"yatube/posts"
	"yatube/utils"

	"github.com/gin-gonic/gin"
)

func PostDetail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return
	}
	detail, err := posts.Get(id)
	if errors.Is(err, posts.ErrNotFound) {
		NotFound(c)
		return
	}
	if err != nil {
		ServerError(c, err)
		return
	}
	if wantsJSON(c) {
		renderJSON(c, http.StatusOK, gin.H{"post": detail.Post, "posts_count": detail.AuthorPosts})
		return
	}
	user := auth.CurrentUser(c)
	c.HTML(http.StatusOK, "post_detail.tmpl", page(c, "Пост "+detail.Post.String(), gin.H{
		"post":       detail.Post,
		"postsCount": detail.AuthorPosts,
		"canEdit":    user != nil && user.ID == detail.Post.AuthorID,
	}))
}

// bindPostForm reads the submitted fields and the optional image upload
func bindPostForm(c *gin.Context) (*posts.Form, error) {
	form := &posts.Form{}
	if err := c.ShouldBind(form); err != nil {
		return nil, err
	}
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return form, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// One byte over the limit is enough to report the file as too large
	data, err := io.ReadAll(io.LimitReader(f, int64(config.MAX_IMAGE_SIZE)+1))
	if err != nil {
		return nil, err
	}
	form.Image = &posts.Upload{Name: file.Filename, Data: data}
	return form, nil
}

// submit runs the guard with no form first, so that the body is read only for
// someone allowed to post it
func submit(c *gin.Context, action func(submitted *posts.Form) (posts.Outcome, error)) {
	out, err := action(nil)
	if err != nil || out.Kind != posts.Render || c.Request.Method != http.MethodPost {
		respond(c, out, err)
		return
	}
	form, err := bindPostForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: err.Error()})
		return
	}
	out, err = action(form)
	respond(c, out, err)
}

func PostCreate(c *gin.Context) {
	user := auth.CurrentUser(c)
	submit(c, func(submitted *posts.Form) (posts.Outcome, error) {
		return posts.Create(user, submitted)
	})
}

func PostEdit(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		NotFound(c)
		return
	}
	user := auth.CurrentUser(c)
	submit(c, func(submitted *posts.Form) (posts.Outcome, error) {
		return posts.Edit(user, id, submitted)
	})
}

func respond(c *gin.Context, out posts.Outcome, err error) {
	if err != nil {
		ServerError(c, err)
		return
	}
	switch out.Kind {
	case posts.Unauthorized:
		auth.RedirectToLogin(c)
	case posts.NotFound:
		NotFound(c)
	case posts.Redirect:
		c.Redirect(http.StatusFound, out.Location)
	case posts.Render:
		groups, err := models.GroupList()
		if err != nil {
			ServerError(c, err)
			return
		}
		title := "Новый пост"
		if out.IsEdit {
			title = "Редактировать пост"
		}
		c.HTML(http.StatusOK, "create_post.tmpl", page(c, title, gin.H{
			"form":   out.Form,
			"errors": out.Errors,
			"isEdit": out.IsEdit,
			"post":   out.Post,
			"groups": groups,
		}))
	}
}
