package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	billdomain "github.com/smallbiznis/billhub/internal/bill/domain"
	"github.com/smallbiznis/billhub/internal/ratelimit"
	subscriberdomain "github.com/smallbiznis/billhub/internal/subscriber/domain"
	"github.com/smallbiznis/billhub/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table the service owns, in foreign key order.
func Models() []any {
	return []any{
		&subscriberdomain.Subscriber{},
		&billdomain.Bill{},
		&billdomain.BillDetail{},
		&ratelimit.QueryLimitLog{},
	}
}

// Migrate brings the schema up to date. Postgres runs the versioned SQL scripts,
// other dialects fall back to gorm AutoMigrate.
func Migrate(conn *gorm.DB, log *zap.Logger) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	dialect := conn.Dialector.Name()
	if dialect == db.TypePostgres {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		log.Info("running sql migrations", zap.String("dialect", dialect))
		return RunMigrations(sqlDB)
	}

	log.Info("running auto migrations", zap.String("dialect", dialect))
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
