package db

import (
	"gallery/config"
	"log/slog"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

func Init() {
	var dialector gorm.Dialector
	if config.MYSQL_DSN != "" {
		slog.Info("using MySQL database")
		dialector = mysql.Open(config.MYSQL_DSN)
	} else if config.SQLITE_FILE != "" {
		slog.Info("using SQLite database", "file", config.SQLITE_FILE)
		dialector = sqlite.Open(config.SQLITE_FILE)
	} else {
		panic("no database configured: set MYSQL_DSN or SQLITE_FILE")
	}
	if err := Open(dialector); err != nil {
		panic(err)
	}
}

// Open replaces Instance with a new connection using the given dialector
func Open(dialector gorm.Dialector) error {
	logLevel := logger.Warn
	if config.DEBUG_MODE {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return err
	}
	Instance = db
	return nil
}
