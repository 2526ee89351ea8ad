package web

import (
	"net/http"
	"yatube/auth"
	"yatube/handlers"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// page merges values with what every page shows: the current user and the title
func page(c *gin.Context, title string, values gin.H) gin.H {
	result := gin.H{
		"user":  auth.CurrentUser(c),
		"title": title,
	}
	for k, v := range values {
		result[k] = v
	}
	return result
}

func wantsJSON(c *gin.Context) bool {
	return c.Query("format") == "json"
}

func renderJSON(c *gin.Context, status int, value any) {
	body, err := json.Marshal(value)
	if err != nil {
		ServerError(c, err)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func NotFound(c *gin.Context) {
	if wantsJSON(c) {
		c.JSON(http.StatusNotFound, handlers.NotFoundResponse)
		return
	}
	c.HTML(http.StatusNotFound, "not_found.tmpl", page(c, "Страница не найдена", gin.H{
		"path": c.Request.URL.Path,
	}))
}

func ServerError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	if wantsJSON(c) {
		c.JSON(http.StatusInternalServerError, handlers.ServerErrorResponse)
		return
	}
	c.HTML(http.StatusInternalServerError, "server_error.tmpl", page(c, "Ошибка сервера", nil))
}

// Recovery renders the error page for panics caught by gin.CustomRecovery
func Recovery(c *gin.Context, recovered any) {
	log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Panic")
	c.HTML(http.StatusInternalServerError, "server_error.tmpl", gin.H{"title": "Ошибка сервера"})
	c.Abort()
}

func DisallowRobots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /auth/\nDisallow: /create/\n")
}
