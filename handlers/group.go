package handlers

import (
	"errors"
	"net/http"
	"yatube/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type GroupInfo struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type GroupCreateRequest struct {
	Title       string `json:"title" form:"title"`
	Slug        string `json:"slug" form:"slug"`
	Description string `json:"description" form:"description"`
}

type GroupErrorResponse struct {
	Error  string             `json:"error"`
	Fields models.FieldErrors `json:"fields"`
}

func groupInfo(g models.Group) GroupInfo {
	return GroupInfo{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		URL:         "/group/" + g.Slug + "/",
	}
}

func GroupList(c *gin.Context, user *models.User) {
	groups, err := models.GroupList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, lo.Map(groups, func(g models.Group, _ int) GroupInfo {
		return groupInfo(g)
	}))
}

func GroupCreate(c *gin.Context, user *models.User) {
	r := GroupCreateRequest{}
	if err := c.ShouldBind(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	group, err := models.GroupCreate(r.Title, r.Slug, r.Description)
	var fieldErrors models.FieldErrors
	if errors.As(err, &fieldErrors) {
		c.JSON(http.StatusBadRequest, GroupErrorResponse{Error: "invalid group", Fields: fieldErrors})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	log.Info().Str("slug", group.Slug).Str("by", user.Username).Msg("Group created")
	c.JSON(http.StatusOK, groupInfo(group))
}
