package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/domain/student"
)

type memStore struct {
	snapshots []student.Snapshot
	saveErr   error
	saves     int
}

func (m *memStore) Load(ctx context.Context) ([]student.Snapshot, error) {
	return m.snapshots, nil
}

func (m *memStore) Close() error {
	return nil
}

func (m *memStore) Save(ctx context.Context, snapshots []student.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snapshots = snapshots
	return nil
}

var errDisk = errors.New("disk full")

// newTestHandlers returns handlers over a session loaded from seed.
func newTestHandlers(t *testing.T, seed ...student.Snapshot) (*Handlers, *session.Session, *memStore) {
	t.Helper()

	store := &memStore{snapshots: seed}
	sess := session.New(store, nil)
	_, err := sess.Load(context.Background())
	require.NoError(t, err)

	return NewHandlers(sess, nil), sess, store
}

func strPtr(s string) *string { return &s }

func ani() student.Snapshot {
	return student.Snapshot{ID: "S001", Name: "Ani", Class: "XII-A", Grades: map[string]float64{"Matematika": 80}}
}
