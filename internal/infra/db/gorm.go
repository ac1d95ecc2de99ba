package db

import (
	"regexp"
	"strings"
	"time"

	"github.com/saas-factory/api/internal/config"
	"github.com/saas-factory/api/internal/modules/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

var sslmodeRegex = regexp.MustCompile(`(?i)\bsslmode\s*=\s*\w+`)

func New(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// unique violations surface as gorm.ErrDuplicatedKey for the repo layer
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsnWithTLS(cfg.Database.DSN, cfg.Database.EnableTLS)), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	return db, nil
}

// dsnWithTLS forces sslmode=require when TLS is enabled.
func dsnWithTLS(dsn string, enableTLS bool) string {
	if !enableTLS {
		return dsn
	}
	if sslmodeRegex.MatchString(dsn) {
		return sslmodeRegex.ReplaceAllString(dsn, "sslmode=require")
	}
	if !strings.HasSuffix(dsn, " ") {
		dsn += " "
	}
	return dsn + "sslmode=require"
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Project{},
		&model.GenerationLog{},
		&model.Activity{},
		&model.ShareSetting{},
		&model.Favorite{},
		&model.Category{},
		&model.Template{},
		&model.Deployment{},
		&model.ProjectMetric{},
	)
}

// RegisterOpenTelemetryPlugin uses the global tracer provider, so call it after
// telemetry.SetupTracing.
func RegisterOpenTelemetryPlugin(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
