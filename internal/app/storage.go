package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/sports-crm-import/internal/config"
	"github.com/riskibarqy/sports-crm-import/internal/domain/contact"
	"github.com/riskibarqy/sports-crm-import/internal/domain/reference"
	"github.com/riskibarqy/sports-crm-import/internal/domain/team"
	lockmemory "github.com/riskibarqy/sports-crm-import/internal/infrastructure/lock/memory"
	lockpostgres "github.com/riskibarqy/sports-crm-import/internal/infrastructure/lock/postgres"
	"github.com/riskibarqy/sports-crm-import/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-crm-import/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/sports-crm-import/internal/platform/id"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
	"github.com/riskibarqy/sports-crm-import/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbPingTimeout     = 5 * time.Second
	dbMaxOpenConns    = 20
	dbMaxIdleConns    = 10
	dbConnMaxIdleTime = 5 * time.Minute
)

type storage struct {
	kind       string
	teams      team.Repository
	contacts   contact.Repository
	references reference.Repository
	locker     usecase.ImportLocker
	close      func() error
}

// openStorage uses Postgres when DB_URL is set and in-memory repositories otherwise.
func openStorage(cfg config.Config, logger *logging.Logger) (storage, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL empty; using in-memory storage")
		return storage{
			kind:       "memory",
			teams:      memory.NewTeamRepository(id.NewUUIDGenerator()),
			contacts:   memory.NewContactRepository(id.NewUUIDGenerator()),
			references: memory.NewReferenceRepository(id.NewUUIDGenerator()),
			locker:     lockmemory.NewLocker(),
			close:      func() error { return nil },
		}, nil
	}

	db, err := openPostgres(cfg)
	if err != nil {
		return storage{}, err
	}

	ids := id.NewUUIDGenerator()
	return storage{
		kind:       "postgres",
		teams:      postgres.NewTeamRepository(db, ids),
		contacts:   postgres.NewContactRepository(db, ids),
		references: postgres.NewReferenceRepository(db, ids),
		locker:     lockpostgres.NewLocker(db, logger),
		close:      db.Close,
	}, nil
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.ServiceName, cfg.DBBinaryParameters)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dbNameFromURL(dsn)))
	return db, nil
}
