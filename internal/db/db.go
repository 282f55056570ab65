package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"incubator/internal/model"
)

// Open connects to the database selected by driver. GORM warnings, slow
// queries and errors are written to log; nil means slog.Default().
func Open(driver, dsn string, log *slog.Logger) (*gorm.DB, error) {
	switch driver {
	case "postgres", "postgresql":
		return NewPostgres(dsn, log)
	case "mysql":
		return NewMySQL(dsn, log)
	case "sqlite", "sqlite3":
		return NewSQLite(dsn, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates the schema for every model. When reset is set
// the tables are dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	tables := []interface{}{
		&model.User{},
		&model.Event{},
	}
	if reset {
		for _, table := range tables {
			if err := db.Migrator().DropTable(table); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}
	}
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

const slowQueryThreshold = 200 * time.Millisecond

// slogWriter feeds GORM's logger into slog.
type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

func gormConfig(log *slog.Logger) *gorm.Config {
	if log == nil {
		log = slog.Default()
	}
	return &gorm.Config{
		Logger: logger.New(slogWriter{log: log}, logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}
