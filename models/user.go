package models

import (
	"errors"
	"fmt"
	"yatube/db"
	"yatube/utils"

	"gorm.io/gorm"
)

type User struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt int64   `json:"-"`
	UpdatedAt int64   `json:"-"`
	Username  string  `gorm:"type:varchar(150);uniqueIndex;not null" json:"username" form:"username" validate:"required,max=150,username"`
	Email     string  `gorm:"type:varchar(254)" json:"-" form:"email" validate:"omitempty,max=254,email"`
	Password  string  `gorm:"type:varchar(128)" json:"-"`
	PassSalt  string  `gorm:"type:varchar(200)" json:"-"`
	Grants    []Grant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

const (
	saltSize          = 60
	minPasswordLength = 8
)

var ErrUsernameTaken = FieldErrors{{Field: "username", Message: "Пользователь с таким именем уже существует."}}

func (u User) String() string {
	return u.Username
}

// UserCreate validates and stores a new user. Validation failures are returned as FieldErrors.
func UserCreate(username, email, plainTextPassword string) (u User, err error) {
	u.Username = username
	u.Email = email
	if err = validateStruct(&u); err != nil {
		return
	}
	if len([]rune(plainTextPassword)) < minPasswordLength {
		return u, FieldErrors{{Field: "password", Message: fmt.Sprintf("Пароль должен содержать не менее %d символов.", minPasswordLength)}}
	}
	var count int64
	if err = db.Instance.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return
	}
	if count > 0 {
		return u, ErrUsernameTaken
	}
	u.SetPassword(plainTextPassword)
	return u, db.Instance.Create(&u).Error
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func UserLogin(username, plainTextPassword string) (u User, success bool) {
	result := db.Instance.Preload("Grants").First(&u, "username = ?", username)
	if result.Error != nil {
		return User{}, false
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}

func UserByUsername(username string) (u User, err error) {
	err = db.Instance.First(&u, "username = ?", username).Error
	return
}

// EnsureAdmin creates the user if missing and grants PermissionAdmin
func EnsureAdmin(username, plainTextPassword string) (User, error) {
	u, err := UserByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u, err = UserCreate(username, "", plainTextPassword)
	}
	if err != nil {
		return u, err
	}
	grant := Grant{UserID: u.ID, Permission: PermissionAdmin}
	err = db.Instance.Where(grant).FirstOrCreate(&grant).Error
	return u, err
}

func (u *User) HasPermission(required Permission) bool {
	for _, grant := range u.Grants {
		if grant.Permission == required {
			return true
		}
	}
	return false
}

func (u *User) HasPermissions(required []Permission) bool {
	for _, permission := range required {
		if !u.HasPermission(permission) {
			return false
		}
	}
	return true
}

func (u *User) CountPosts() (count int64, err error) {
	err = db.Instance.Model(&Post{}).Where("author_id = ?", u.ID).Count(&count).Error
	return
}
