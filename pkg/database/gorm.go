package database

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolConfig struct {
	MaxOpenConns int
	MaxIdleConns int
	LogLevel     string // LOG_LEVEL switch; DEBUG turns on SQL logging
}

func getLogger(level string) logger.Interface {
	gormLevel := logger.Warn
	switch strings.ToUpper(level) {
	case "DEBUG":
		gormLevel = logger.Info
	case "ERROR":
		gormLevel = logger.Error
	}

	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true, // Don't include params (vectors are huge) in the SQL log
			Colorful:                  false,
		},
	)
}

func configureConnectionPool(db *gorm.DB, cfg PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 10
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 25
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// NewGormDBFromDSN opens a pooled connection and verifies it with a ping so
// callers fail at startup rather than on the first request.
func NewGormDBFromDSN(ctx context.Context, dsn string, cfg PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: getLogger(cfg.LogLevel),
	})
	if err != nil {
		return nil, ClassifyError("connect", err)
	}

	if err := configureConnectionPool(db, cfg); err != nil {
		return nil, ClassifyError("connect", err)
	}

	if err := Ping(ctx, db); err != nil {
		_ = Close(db)
		return nil, err
	}

	return db, nil
}

// Ping borrows one pooled connection and returns it.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return ClassifyError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ClassifyError("ping", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
