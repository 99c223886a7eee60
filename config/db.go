package config

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"craftmyprep-backend/logger"
)

// OpenDB opens the relational store described by db and checks the
// connection. SQLite is limited to one open connection so that in-memory
// databases are shared and writes are serialized, and always enforces
// foreign keys.
func OpenDB(db Database, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(db.Driver) {
	case "postgres":
		dialector = postgres.Open(db.DSN)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(db.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}

	log.Info("Connecting to database...", "driver", db.Driver)
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database handle: %w", err)
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Error("Database ping failed", "error", err)
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	log.Info("Database connection established")
	return conn, nil
}

// sqliteDSN turns on foreign key enforcement, which SQLite leaves off by
// default.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=1"
}
