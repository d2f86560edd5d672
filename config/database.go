package config

import (
	"fmt"
	"log"
	"os"
	"time"

	sqlmysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var (
	db *gorm.DB
)

func GetDB() *gorm.DB {
	return db
}

// ConnectDedupDatabase opens the MySQL database backing the sent-invoice
// dedup table and sets the global handle. The dedup store is opportunistic:
// callers should treat a connection failure as "dedup disabled", not fatal.
func ConnectDedupDatabase(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("empty dedup DSN")
	}
	if _, err := sqlmysql.ParseDSN(dsn); err != nil {
		return fmt.Errorf("invalid dedup DSN: %v", err)
	}

	var err error
	db, err = gorm.Open(mysql.Open(dsn), initConfig())
	if err != nil {
		return fmt.Errorf("failed to connect dedup database: %v", err)
	}

	if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	return nil
}

func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         initLog(),
		NamingStrategy: initNamingStrategy(),
	}
}

func initLog() logger.Interface {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:      false,
			LogLevel:      logger.Error,
			SlowThreshold: time.Second,
		},
	)
	return newLogger
}

func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}
