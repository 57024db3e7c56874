package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/pe-program/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

type PEContext string

const (
	DBContextURL PEContext = "pe-backend-url"
)

// IsPostgres reports whether the DSN points to a PostgreSQL server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens the database, migrates it and configures the connection pool.
//
// DSNs starting with postgres:// or postgresql:// connect to PostgreSQL,
// everything else is treated as the path of a SQLite database file.
func Connect(dsn string) error {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
	}

	var db *gorm.DB
	var err error

	if IsPostgres(dsn) {
		db, err = gorm.Open(postgres.Open(dsn), config)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		err = migrate(db)
		if err != nil {
			return err
		}
	} else {
		db, err = connectSQLite(dsn, config)
		if err != nil {
			return err
		}
	}

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	// Set the exported variable
	DB = db

	return nil
}

func connectSQLite(dsn string, config *gorm.Config) (*gorm.DB, error) {
	// Migration with foreign keys disabled since sqlite does not support
	// ALTER COLUMN. Tables are copied to a temporary table, then the table
	// is dropped and recreated.
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Now, reconnect with foreign keys enabled
	db, err = gorm.Open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection serializes all writers. This prevents SQLITE_BUSY
	// errors and makes every ledger transaction exclusive.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "pe:after_query", queryCallback},
		{db.Callback().Query().After("*"), "pe:after_query_general", generalCallback},
		{db.Callback().Row().After("*"), "pe:after_row_general", generalCallback},
		{db.Callback().Create().After("*"), "pe:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "pe:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "pe:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "pe:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "pe:after_delete_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.processor.Register(c.name, c.fn); err != nil {
			return err
		}
	}

	return nil
}

var pluralIes = regexp.MustCompile("ies$")

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		name = pluralIes.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	msg := db.Error.Error()

	// Form numbers identify a family across the program
	if strings.Contains(msg, "UNIQUE constraint failed: families.form_number") || (strings.Contains(msg, "duplicate key value") && strings.Contains(msg, "form_number")) {
		db.Error = ErrFormNumberNotUnique
		return
	}

	if strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key constraint") {
		db.Error = ErrReference
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(Family{}, Member{}, AllocationLedger{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	// All categories share the Contribution model, each in its own table.
	// Index names are global in SQLite, so the family index is created per
	// table instead of via struct tags.
	for _, category := range types.Categories {
		table := category.Table()

		err = db.Table(table).AutoMigrate(&Contribution{})
		if err != nil {
			return fmt.Errorf("error during DB migration of %s: %w", table, err)
		}

		err = db.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_family_id ON %s (family_id)", table, table)).Error
		if err != nil {
			return fmt.Errorf("error creating family index on %s: %w", table, err)
		}
	}

	return nil
}
