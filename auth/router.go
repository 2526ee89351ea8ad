package auth

import (
	"net/http"
	"net/url"
	"yatube/models"

	"github.com/gin-gonic/gin"
)

// User is authenticated and posseses the required permissions
type HandlerFunc func(c *gin.Context, user *models.User)

const LoginURL = "/auth/login/"

// Router is a wrapper that adds auth checks + User pre-loading.
// Routes registered through HTML send anonymous visitors to the login page, the rest answer 401.
type Router struct {
	Base gin.IRoutes
	HTML bool
}

// RedirectToLogin sends the visitor to the login page and back to the current URL afterwards
func RedirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc, required []models.Permission) {
	user := CurrentUser(c)
	if user == nil && cr.HTML {
		RedirectToLogin(c)
		return
	}
	if user == nil || !user.HasPermissions(required) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	handler(c, user)
}

func (cr *Router) POST(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc, required ...models.Permission) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler, required)
	})
}

// Handler guards any plain gin handler (e.g. expvar)
func (cr *Router) Handler(handler gin.HandlerFunc, required ...models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		cr.baseExec(c, func(c *gin.Context, _ *models.User) { handler(c) }, required)
	}
}
