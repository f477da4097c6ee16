package services

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/deutschai/deutschai_api/model"
	"github.com/deutschai/deutschai_api/services/repositories"
	"github.com/deutschai/deutschai_api/shared"
)

// SqlService owns the database connection and the repository layer.
// DATABASE_URL selects postgres; otherwise a local sqlite file is used,
// which keeps development and tests driverless.
type SqlService struct {
	context.DefaultService
	db *gorm.DB

	databaseURL string
	sqlitePath  string

	Users        *repositories.UserRepository
	Vocabularies *repositories.VocabularyRepository
	Activities   *repositories.ActivityRepository
}

const SQL_SVC = "sql_svc"

// Id returns Service ID
func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw db handle
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.databaseURL = os.Getenv("DATABASE_URL")
	ds.sqlitePath = os.Getenv("DB_DATABASE")
	if ds.sqlitePath == "" {
		ds.sqlitePath = "deutschai.db"
	}

	return ds.DefaultService.Configure(ctx)
}

// Start opens the connection, migrates the schema and builds the
// repositories.
func (ds *SqlService) Start() (err error) {
	if ds.databaseURL != "" {
		err = ds.connectPostgres()
	} else {
		ds.db, err = gorm.Open(sqlite.Open(ds.sqlitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
	}
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.User{},
		&model.Vocabulary{},
		&model.Activity{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	ds.Users = repositories.NewUserRepository(ds.db)
	ds.Vocabularies = repositories.NewVocabularyRepository(ds.db)
	ds.Activities = repositories.NewActivityRepository(ds.db)

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) connectPostgres() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					return nil
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	return err
}

// Transaction runs fn inside a database transaction.
func (ds *SqlService) Transaction(fn func(tx *gorm.DB) error) error {
	return ds.db.Transaction(fn)
}

func (ds *SqlService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// HandleError maps database errors onto the API error taxonomy so
// callers can return them directly.
func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := shared.GetAppError(err); ok {
		return appErr
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		// Driver-level messages; sqlite and postgres phrase these differently.
		msg := err.Error()
		if strings.Contains(msg, "duplicate key value violates unique constraint") ||
			strings.Contains(msg, "UNIQUE constraint failed") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(msg, "connection refused") {
			statusCode = http.StatusServiceUnavailable
			errorType = "DATABASE_CONNECTION_ERROR"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return shared.NewAppError(statusCode, err, errorType)
}

// IsNotFound reports whether err is a missing-record error.
func (ds *SqlService) IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
