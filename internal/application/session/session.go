// Package session owns the one in-memory roster of a gradebook run and the
// store it is loaded from and saved to.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// Session ties a Roster to its Store. Every mutating command reads and
// changes Roster(), then calls Persist. Not safe for concurrent use.
type Session struct {
	roster *student.Roster
	store  student.Store
	log    *logger.Logger
}

// New returns a session with an empty roster. Call Load before use.
func New(store student.Store, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		roster: student.NewRoster(),
		store:  store,
		log:    log.With(logger.Component("session")),
	}
}

// Roster returns the live roster.
func (s *Session) Roster() *student.Roster {
	return s.roster
}

// Load replaces the roster with the stored one. On a store error the roster
// is left empty and the error is returned; the session stays usable.
func (s *Session) Load(ctx context.Context) (student.LoadReport, error) {
	start := time.Now()

	snapshots, err := s.store.Load(ctx)
	if err != nil {
		s.roster.Restore(nil)
		s.log.Error("failed to load roster", logger.Err(err))
		return student.LoadReport{}, fmt.Errorf("session: load: %w", err)
	}

	report := s.roster.Restore(snapshots)
	for _, rej := range report.Rejected {
		s.log.Warn("stored student rejected",
			logger.Int("position", rej.Position),
			logger.StudentID(rej.ID),
			logger.Reason(rej.Reason),
		)
	}

	s.log.Info("roster loaded",
		logger.Loaded(report.Loaded),
		logger.Rejected(len(report.Rejected)),
		logger.Latency(time.Since(start)),
	)
	return report, nil
}

// Persist writes the whole roster to the store.
func (s *Session) Persist(ctx context.Context) error {
	count := s.roster.StudentCount()
	if err := s.store.Save(ctx, s.roster.Snapshot()); err != nil {
		s.log.Error("failed to save roster", logger.Count("students", count), logger.Err(err))
		return fmt.Errorf("session: persist: %w", err)
	}

	s.log.Debug("roster saved", logger.Count("students", count))
	return nil
}

// Close releases the store.
func (s *Session) Close() error {
	return s.store.Close()
}
