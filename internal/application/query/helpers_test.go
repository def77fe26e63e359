package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/domain/student"
)

type memStore struct {
	snapshots []student.Snapshot
}

func (m *memStore) Load(ctx context.Context) ([]student.Snapshot, error) {
	return m.snapshots, nil
}

func (m *memStore) Save(ctx context.Context, snapshots []student.Snapshot) error {
	m.snapshots = snapshots
	return nil
}

func (m *memStore) Close() error {
	return nil
}

func grades(scores ...float64) map[string]float64 {
	subjects := []string{"Biologi", "Fisika", "Kimia", "Matematika"}
	out := make(map[string]float64, len(scores))
	for i, s := range scores {
		out[subjects[i]] = s
	}
	return out
}

// newTestHandlers loads a five-student roster:
// S001 90, S002 60, S003 75, S004 100, S005 75.
func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()

	store := &memStore{snapshots: []student.Snapshot{
		{ID: "S001", Name: "Ani", Class: "XII-A", Grades: grades(90)},
		{ID: "S002", Name: "Budi", Class: "XII-B", Grades: grades(50, 70)},
		{ID: "S003", Name: "Citra", Class: "xii-a", Grades: grades(75)},
		{ID: "S004", Name: "Dodi", Class: "XII-C", Grades: grades(100, 100)},
		{ID: "S005", Name: "Eka", Class: "XII-B", Grades: grades(80, 70)},
	}}
	sess := session.New(store, nil)
	_, err := sess.Load(context.Background())
	require.NoError(t, err)

	return NewHandlers(sess, 3, nil)
}
