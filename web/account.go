package web

import (
	"errors"
	"net/http"
	"strings"
	"yatube/auth"
	"yatube/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type signupForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

func Signup(c *gin.Context) {
	form := signupForm{}
	errs := models.FieldErrors{}
	if c.Request.Method == http.MethodPost {
		_ = c.ShouldBind(&form)
		user, err := models.UserCreate(strings.TrimSpace(form.Username), strings.TrimSpace(form.Email), form.Password)
		if !errors.As(err, &errs) {
			if err != nil {
				ServerError(c, err)
				return
			}
			if err = auth.Login(c, &user); err != nil {
				ServerError(c, err)
				return
			}
			log.Info().Str("user", user.Username).Msg("New user signed up")
			c.Redirect(http.StatusFound, "/")
			return
		}
	}
	c.HTML(http.StatusOK, "signup.tmpl", page(c, "Регистрация", gin.H{
		"form":   form,
		"errors": errs,
	}))
}

// safeNext only allows local paths as the post-login destination
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func Login(c *gin.Context) {
	form := loginForm{Next: c.Query("next")}
	failed := false
	if c.Request.Method == http.MethodPost {
		_ = c.ShouldBind(&form)
		if user, ok := models.UserLogin(strings.TrimSpace(form.Username), form.Password); ok {
			if err := auth.Login(c, &user); err != nil {
				ServerError(c, err)
				return
			}
			c.Redirect(http.StatusFound, safeNext(form.Next))
			return
		}
		failed = true
	}
	c.HTML(http.StatusOK, "login.tmpl", page(c, "Войти", gin.H{
		"form":   form,
		"next":   form.Next,
		"failed": failed,
	}))
}

func Logout(c *gin.Context) {
	if err := auth.Logout(c); err != nil {
		ServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "logged_out.tmpl", page(c, "Вы вышли из системы", nil))
}
