package postgres

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbbmagic-coder/rabat-property-tracker/internal/core/domain"
)

// RunLogRepository implements RunLogPort over PostgreSQL: the search_logs
// audit table plus a session advisory lock for run mutual exclusion.
type RunLogRepository struct {
	pool *pgxpool.Pool

	// lockConn pins the advisory lock to one session. Advisory locks are
	// session-scoped, so acquire and release must go through the same
	// connection, not whichever one the pool hands out next. The mutex
	// guards the field: the scheduler and the trigger consumer call into
	// this repository from separate goroutines.
	lockMu   sync.Mutex
	lockConn *pgxpool.Conn
}

// NewRunLogRepository creates the run-log repository.
func NewRunLogRepository(pool *pgxpool.Pool) (*RunLogRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres run log repository: pool cannot be nil")
	}
	return &RunLogRepository{pool: pool}, nil
}

// Append writes exactly one audit row for a finished run.
func (r *RunLogRepository) Append(ctx context.Context, rl domain.RunLog) error {
	query := `
        INSERT INTO search_logs (search_query, results_found, new_properties_added,
                                 execution_time_ms, status, error_message, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pool.Exec(ctx, query,
		rl.SearchQuery, rl.ResultsFound, rl.NewPropertiesAdded,
		rl.ExecutionTimeMs, rl.Status, nullable(rl.ErrorMessage), rl.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres run log repository: append: %w", err)
	}
	return nil
}

// TryAcquireRunLock takes the pipeline's advisory lock without blocking.
// The lock excludes overlapping runs across every process sharing the
// database, not just within this one.
func (r *RunLogRepository) TryAcquireRunLock(ctx context.Context, pipeline string) (bool, error) {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()

	if r.lockConn != nil {
		return false, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("postgres run log repository: acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, lockKey(pipeline)).Scan(&acquired); err != nil {
		conn.Release()
		return false, fmt.Errorf("postgres run log repository: acquire lock for '%s': %w", pipeline, err)
	}
	if !acquired {
		conn.Release()
		return false, nil
	}

	r.lockConn = conn
	return true, nil
}

// ReleaseRunLock releases the pipeline's advisory lock and returns its
// connection to the pool.
func (r *RunLogRepository) ReleaseRunLock(ctx context.Context, pipeline string) error {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()

	if r.lockConn == nil {
		return nil
	}
	defer func() {
		r.lockConn.Release()
		r.lockConn = nil
	}()

	var released bool
	err := r.lockConn.QueryRow(ctx, `SELECT pg_advisory_unlock($1)`, lockKey(pipeline)).Scan(&released)
	if err != nil {
		return fmt.Errorf("postgres run log repository: release lock for '%s': %w", pipeline, err)
	}
	if !released {
		log.Printf("PostgresRunLogRepo: Advisory lock for '%s' was not held on release.\n", pipeline)
	}
	return nil
}

// lockKey derives the stable 64-bit advisory lock key from the pipeline name.
func lockKey(pipeline string) int64 {
	h := fnv.New64a()
	h.Write([]byte(pipeline))
	return int64(h.Sum64())
}
