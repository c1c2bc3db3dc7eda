package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

type Options struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

func (o Options) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		o.User,
		o.Password,
		o.Host,
		o.Port,
		o.Name,
	)
}

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService opens the relational store. Driver "sqlite" is accepted
// for single-node and local use; everything else goes to Postgres.
func NewPostgresService(logg *logger.Logger, opts Options) (*PostgresService, error) {
	serviceLog := logg.With("service", "PostgresService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch opts.Driver {
	case "sqlite":
		path := opts.SQLitePath
		if path == "" {
			path = "netinv.db"
		}
		dialector = sqlite.Open(path + "?_foreign_keys=on&_busy_timeout=5000")
	default:
		dialector = postgres.Open(opts.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driverName(opts.Driver), err)
	}
	serviceLog.Info("Database connected", "driver", driverName(opts.Driver))
	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	s.log.Info("Schema migrated")
	return nil
}

func (s *PostgresService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func driverName(d string) string {
	if d == "sqlite" {
		return "sqlite"
	}
	return "postgres"
}
