package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/movies-api/config"
)

const memoryPath = ":memory:"

// Open connects to the database selected by DB_TYPE and verifies the connection
func Open(cfg map[string]string) (*gorm.DB, error) {
	dbType := strings.ToLower(config.GetString(cfg, "DB_TYPE", "sqlite"))

	dialector, err := newDialector(dbType, cfg)
	if err != nil {
		return nil, err
	}

	gormLog := log.With().Str("component", "gorm").Logger()
	newLogger := logger.New(
		&gormLog,
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(cfg, "DB_SLOW_THRESHOLD_MS", 10000)) * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s database: %w", dbType, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}
	if dbType == "sqlite" && config.GetString(cfg, "DB_PATH", "test.db") == memoryPath {
		// every new connection to :memory: is a fresh empty database
		sqlDB.SetMaxOpenConns(1)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}

	if replicaDSN := config.GetString(cfg, "DB_REPLICA_DSN", ""); replicaDSN != "" {
		if err := useReplica(db, dbType, replicaDSN); err != nil {
			return nil, err
		}
	}

	log.Info().Str("dbType", dbType).Msg("Connected to database")
	return db, nil
}

func newDialector(dbType string, cfg map[string]string) (gorm.Dialector, error) {
	switch dbType {
	case "sqlite":
		return sqlite.Open(config.GetString(cfg, "DB_PATH", "test.db")), nil
	case "postgres", "supa":
		sslMode := "disable"
		if dbType == "supa" {
			sslMode = "require"
		}
		connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(cfg, "DB_HOST", "localhost"),
			config.GetString(cfg, "DB_USER", "postgres"),
			config.GetString(cfg, "DB_PASSWORD", ""),
			config.GetString(cfg, "DB_NAME", "movies"),
			config.GetString(cfg, "DB_PORT", "5432"),
			config.GetString(cfg, "DB_SSLMODE", sslMode),
		)
		return postgres.New(postgres.Config{
			DSN:                  connStr,
			PreferSimpleProtocol: true,
		}), nil
	case "mysql":
		connStr := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			config.GetString(cfg, "DB_USER", "root"),
			config.GetString(cfg, "DB_PASSWORD", ""),
			config.GetString(cfg, "DB_HOST", "localhost"),
			config.GetString(cfg, "DB_PORT", "3306"),
			config.GetString(cfg, "DB_NAME", "movies"),
		)
		return mysql.Open(connStr), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// useReplica routes reads to a replica while writes and transactions stay on the primary
func useReplica(db *gorm.DB, dbType, dsn string) error {
	var replica gorm.Dialector
	switch dbType {
	case "postgres", "supa":
		replica = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	case "mysql":
		replica = mysql.Open(dsn)
	default:
		log.Warn().Str("dbType", dbType).Msg("DB_REPLICA_DSN ignored for this DB_TYPE")
		return nil
	}

	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: []gorm.Dialector{replica},
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("error registering read replica: %w", err)
	}
	log.Info().Msg("Read replica registered")
	return nil
}
