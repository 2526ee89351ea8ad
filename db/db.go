package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens MySQL if mysqlDSN is set, otherwise PostgreSQL if postgresDSN is set and
// falls back to the SQLite file
func Init(mysqlDSN, postgresDSN, sqliteFile string) error {
	var dialector gorm.Dialector
	switch {
	case mysqlDSN != "":
		dialector = mysql.Open(mysqlDSN)
	case postgresDSN != "":
		dialector = postgres.Open(postgresDSN)
	default:
		dialector = sqlite.Open(sqliteFile)
	}
	return Open(dialector)
}

func Open(dialector gorm.Dialector) error {
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	Instance = db
	return nil
}

// InitMemory opens a private in-memory SQLite database, one per name
func InitMemory(name string) error {
	if err := Open(sqlite.Open("file:" + name + "?mode=memory&cache=shared&_fk=1")); err != nil {
		return err
	}
	sqlDB, err := Instance.DB()
	if err != nil {
		return err
	}
	// A single connection keeps the in-memory database alive for the whole test
	sqlDB.SetMaxOpenConns(1)
	return nil
}
