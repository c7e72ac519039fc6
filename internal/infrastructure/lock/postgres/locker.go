package postgres

import (
	"context"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/sports-crm-import/internal/platform/logging"
)

const unlockTimeout = 5 * time.Second

// Locker takes session-level advisory locks keyed by hashtext(key). The lock lives on a
// dedicated pooled connection that is held until release.
type Locker struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewLocker(db *sqlx.DB, logger *logging.Logger) *Locker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Locker{db: db, logger: logger}
}

func (l *Locker) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	conn, err := l.db.Connx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("open lock connection: %w", err)
	}

	var acquired bool
	if err := conn.GetContext(ctx, &acquired, "SELECT pg_try_advisory_lock(hashtext($1))", key); err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("try advisory lock %s: %w", key, err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
			defer cancel()

			if _, err := conn.ExecContext(unlockCtx, "SELECT pg_advisory_unlock(hashtext($1))", key); err != nil {
				l.logger.WarnContext(ctx, "advisory unlock failed; discarding connection", "key", key, "error", err)
				// A bad-conn error from Raw drops the session and the lock with it.
				_ = conn.Raw(func(any) error { return driver.ErrBadConn })
			}
			_ = conn.Close()
		})
	}
	return release, true, nil
}
