package config

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/campus-social/backend/internal/repositories"
)

// InitDB opens the Postgres connection pool and migrates the schema when asked
func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger:         newGormLogger(cfg),
		NowFunc:        repositories.Now,
		TranslateError: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to PostgreSQL")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.PostgresMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.PostgresConnMaxLife)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to ping PostgreSQL")
	}
	logrus.Info("connected to PostgreSQL")

	if cfg.AutoMigrate {
		if err := repositories.AutoMigrate(db); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to auto migrate models")
		}
		logrus.Info("PostgreSQL auto-migrations completed")
	}
	return db, nil
}

// CloseDB closes the pool behind db
func CloseDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("failed to get sql.DB from gorm")
		return
	}
	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("failed to close PostgreSQL connection")
		return
	}
	logrus.Info("PostgreSQL connection closed")
}

func newGormLogger(cfg *Config) logger.Interface {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
