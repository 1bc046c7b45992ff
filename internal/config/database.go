package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

const (
	dbMaxIdleConns    = 5
	dbMaxOpenConns    = 50
	dbConnMaxLifetime = 30 * time.Minute
	dbConnectRetries  = 5
	dbRetryBackoff    = 2 * time.Second
)

// ConnectDatabase opens the MySQL connection and verifies it. Container
// setups often bring the database up after the app, so the first ping is
// retried a few times before giving up.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	logLevel := logger.Error
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= dbConnectRetries; attempt++ {
		db, err = gorm.Open(mysql.Open(buildDSN(cfg.Database)), &gorm.Config{
			Logger:                 logger.Default.LogMode(logLevel),
			SkipDefaultTransaction: true,
		})
		if err == nil {
			break
		}
		log.Printf("⚠️ Database connection attempt %d/%d failed: %v", attempt, dbConnectRetries, err)
		time.Sleep(dbRetryBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// The pool stays small: request handlers hold connections only for
	// single queries, and the cron jobs run serially.
	sqlDB.SetMaxIdleConns(dbMaxIdleConns)
	sqlDB.SetMaxOpenConns(dbMaxOpenConns)
	sqlDB.SetConnMaxLifetime(dbConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	log.Printf("✅ Database connected [%s:%s/%s]", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	return db, nil
}

// buildDSN assembles the MySQL connection string. parseTime is required
// for scanning DATETIME columns into time.Time; UTC keeps appointment
// dates stable across host timezones.
func buildDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// CloseDatabase closes the connection pool on shutdown
func CloseDatabase() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck pings the database for the health endpoint
func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
