package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "students.json"), nil)
}

func TestLoad_MissingFileCreatesEmptyArray(t *testing.T) {
	s := newTestStore(t)

	snapshots, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestLoad_MissingDirectoryIsCreated(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nested", "data", "students.json"), nil)

	_, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, s.Path())
}

func TestLoad_MalformedJSON(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"id": "S001",`), 0o644))

	snapshots, err := s.Load(context.Background())
	assert.Nil(t, snapshots)
	assert.True(t, shared.IsStorage(err))
}

func TestLoad_BadlyTypedEntryKeepsTheRest(t *testing.T) {
	s := newTestStore(t)
	content := `[
  {"id": "S001", "name": "Ani", "class": "XII-A", "grades": {"Fisika": 90}},
  {"id": "S002", "name": "Budi", "class": "XII-A", "grades": {"Fisika": "90"}}
]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	snapshots, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	roster := student.NewRoster()
	report := roster.Restore(snapshots)
	assert.Equal(t, 1, report.Loaded)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 1, report.Rejected[0].Position)
	assert.Equal(t, "S002", report.Rejected[0].ID)

	_, ok := roster.FindStudent("S001")
	assert.True(t, ok)
}

func TestLoad_NonArrayIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"object", `{"id": "S001"}`},
		{"string", `"students"`},
		{"number", `42`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o644))

			snapshots, err := s.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, snapshots)
		})
	}
}

func TestLoad_MissingGradesField(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"id":"S001","name":"Ani","class":"XII-A"}]`), 0o644))

	snapshots, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	record := student.RecordFromSnapshot(snapshots[0])
	assert.Empty(t, record.Grades())
	assert.NotNil(t, record.Grades())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []student.Snapshot{
		{ID: "S002", Name: "Budi", Class: "XII-B", Grades: map[string]float64{"Fisika": 70.5}},
		{ID: "S001", Name: "Ani", Class: "XII-A", Grades: map[string]float64{"Matematika": 90, "Biologi": 85}},
		{ID: "S003", Name: "Citra", Class: "XII-A", Grades: map[string]float64{}},
	}

	require.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSave_IndentedAndReplacesWholeDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []student.Snapshot{
		{ID: "S001", Name: "Ani", Class: "XII-A", Grades: map[string]float64{}},
		{ID: "S002", Name: "Budi", Class: "XII-B", Grades: map[string]float64{}},
	}))
	require.NoError(t, s.Save(ctx, []student.Snapshot{
		{ID: "S002", Name: "Budi", Class: "XII-B", Grades: map[string]float64{}},
	}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"S002\"")
	assert.NotContains(t, string(data), "S001")

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(context.Background(), nil))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestLoad_CanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, s.Path())
}
