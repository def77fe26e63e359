package session

import (
	"context"
	"errors"

	"github.com/nilai-hub/student-grades/internal/domain/student"
)

// memStore is an in-memory student.Store for tests.
type memStore struct {
	snapshots []student.Snapshot
	loadErr   error
	saveErr   error
	saves     int
	closed    bool
}

func (m *memStore) Load(ctx context.Context) ([]student.Snapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.snapshots, nil
}

func (m *memStore) Save(ctx context.Context, snapshots []student.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snapshots = snapshots
	return nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

var errDisk = errors.New("disk full")
