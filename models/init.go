package models

import (
	"yatube/db"
)

func Init() error {
	return db.Instance.AutoMigrate(
		&User{},
		&Grant{},
		&Group{},
		&Image{},
		&Post{},
	)
}
