package auth

import (
	"yatube/db"
	"yatube/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	userIdKey   = "id"
	CookieName  = "yatube_session"
	SessionDays = 14
)

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(user *models.User) error {
	s.Clear()
	s.Set(userIdKey, user.ID)
	return s.Save()
}

func (s *Session) LogoutUser() error {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

func (s *Session) UserID() uint64 {
	id, _ := s.Get(userIdKey).(uint64)
	return id
}

func (s *Session) User() (user models.User) {
	id := s.UserID()
	if id == 0 {
		return
	}
	if db.Instance.Preload("Grants").First(&user, "id = ?", id).Error != nil {
		user = models.User{}
	}
	return
}

const currentUserKey = "yatube.user"

// CurrentUser is the logged in user of the request or nil for anonymous visitors.
// The lookup is done once per request.
func CurrentUser(c *gin.Context) *models.User {
	if cached, ok := c.Get(currentUserKey); ok {
		return cached.(*models.User)
	}
	var result *models.User
	if user := LoadSession(c).User(); user.ID != 0 {
		result = &user
	}
	c.Set(currentUserKey, result)
	return result
}

// Login starts a session for user, effective for the rest of the request too
func Login(c *gin.Context, user *models.User) error {
	if err := LoadSession(c).LoginUser(user); err != nil {
		return err
	}
	c.Set(currentUserKey, user)
	return nil
}

func Logout(c *gin.Context) error {
	c.Set(currentUserKey, (*models.User)(nil))
	return LoadSession(c).LogoutUser()
}
