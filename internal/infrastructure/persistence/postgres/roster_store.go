package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER STORE
// ══════════════════════════════════════════════════════════════════════════════

// Compile-time check.
var _ student.Store = (*RosterStore)(nil)

// RosterStore implements student.Store on the roster_students table.
type RosterStore struct {
	conn    *Connection
	timeout time.Duration
	log     *logger.Logger
}

// NewRosterStore wraps an open, migrated connection.
func NewRosterStore(conn *Connection, timeout time.Duration, log *logger.Logger) *RosterStore {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = DefaultConfig().QueryTimeout
	}
	return &RosterStore{
		conn:    conn,
		timeout: timeout,
		log:     log.With(logger.Backend("postgres")),
	}
}

const selectRoster = `
	SELECT id, name, class, grades
	FROM roster_students
	ORDER BY position
`

const insertRosterStudent = `
	INSERT INTO roster_students (position, id, name, class, grades)
	VALUES ($1, $2, $3, $4, $5)
`

// Load reads every row in position order. An empty table is an empty roster.
func (s *RosterStore) Load(ctx context.Context) ([]student.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	snapshots := make([]student.Snapshot, 0)

	err := s.conn.WithTx(ctx, ReadOnlyTxOptions(), func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectRoster)
		if err != nil {
			return fmt.Errorf("query roster: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var snap student.Snapshot
			if err := rows.Scan(&snap.ID, &snap.Name, &snap.Class, &snap.Grades); err != nil {
				return fmt.Errorf("scan roster row: %w", err)
			}
			if snap.Grades == nil {
				snap.Grades = map[string]float64{}
			}
			snapshots = append(snapshots, snap)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "read roster from postgres", err)
	}

	s.log.Debug("roster read", logger.Count("students", len(snapshots)), logger.Latency(time.Since(start)))
	return snapshots, nil
}

// Save replaces every row in one transaction: a failed insert leaves
// the previous roster untouched.
func (s *RosterStore) Save(ctx context.Context, snapshots []student.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	err := s.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM roster_students"); err != nil {
			return fmt.Errorf("clear roster: %w", err)
		}
		if len(snapshots) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for pos, snap := range snapshots {
			grades := snap.Grades
			if grades == nil {
				grades = map[string]float64{}
			}
			batch.Queue(insertRosterStudent, pos, snap.ID, snap.Name, snap.Class, grades)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range snapshots {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("insert %s: %w", snapshots[i].ID, err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "write roster to postgres", err)
	}

	s.log.Debug("roster written", logger.Count("students", len(snapshots)), logger.Latency(time.Since(start)))
	return nil
}

// Close closes the underlying pool.
func (s *RosterStore) Close() error {
	s.conn.Close()
	return nil
}
