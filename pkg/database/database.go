package database

import (
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/eliahealth/elia/internal/config"
	"github.com/eliahealth/elia/internal/domain/appointment"
	"github.com/eliahealth/elia/internal/domain/audio"
	"github.com/eliahealth/elia/internal/domain/patient"
	"github.com/eliahealth/elia/internal/domain/report"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		if err := registerUnicodeLower(); err != nil {
			return nil, fmt.Errorf("registering unicode lower(): %w", err)
		}
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("creating database directory: %w", mkErr)
			}
		}
		dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", cfg.SQLitePath)
		db, err = gorm.Open(sqlite.Open(dsn), gormCfg)
	default:
		db, err = gorm.Open(postgres.New(postgres.Config{DSN: cfg.DSN()}), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

var (
	unicodeLowerOnce sync.Once
	unicodeLowerErr  error
)

// registerUnicodeLower replaces sqlite's built-in lower(), which folds ASCII
// only, with a full Unicode fold. Name search depends on lower() matching
// Cyrillic the way postgres does. Registration is process-wide and covers
// every sqlite connection opened afterwards.
func registerUnicodeLower() error {
	unicodeLowerOnce.Do(func() {
		unicodeLowerErr = gosqlite.RegisterDeterministicScalarFunction(
			"lower", 1,
			func(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case string:
					return strings.ToLower(v), nil
				case []byte:
					return strings.ToLower(string(v)), nil
				default:
					return v, nil
				}
			},
		)
	})
	return unicodeLowerErr
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&patient.Patient{},
		&patient.ChronicDisease{},
		&patient.RecentDisease{},
		&patient.HealthIndicator{},
		&appointment.Appointment{},
		&report.MedicalReport{},
		&audio.AudioFile{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}
