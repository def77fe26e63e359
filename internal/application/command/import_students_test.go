package command

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/internal/infrastructure/spreadsheet"
)

func TestImportStudents_FromWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.xlsx")
	records := []*student.Record{
		student.NewRecord("S001", "Ani Dua", "XII-A", nil),
		student.NewRecord("S002", "Budi", "XII-B", map[string]float64{"Fisika": 90}),
		student.NewRecord("S003", "Citra", "xii-b", map[string]float64{"Fisika": 65, "Kimia": 70}),
	}
	require.NoError(t, spreadsheet.WriteFile(path, records, nil))

	h, sess, store := newTestHandlers(t, ani())

	res, err := h.ImportStudents.Handle(context.Background(), ImportStudentsCommand{Path: path})
	require.NoError(t, err)
	assert.Equal(t, spreadsheet.StudentSheet, res.Sheet)
	assert.Equal(t, []string{"S002", "S003"}, res.Added)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, SkippedRow{Row: 2, ID: "S001", Reason: "id already on the roster"}, res.Skipped[0])

	assert.Equal(t, 3, sess.Roster().StudentCount())
	assert.Equal(t, 1, store.saves, "import persists once")

	citra, ok := sess.Roster().FindStudent("S003")
	require.True(t, ok)
	assert.Equal(t, map[string]float64{"Fisika": 65, "Kimia": 70}, citra.Grades())
}

func TestImportStudents_InvalidRows(t *testing.T) {
	h, sess, store := newTestHandlers(t)
	h.ImportStudents.read = func(path string) (string, []spreadsheet.Row, error) {
		return "Sheet1", []spreadsheet.Row{
			{Number: 2, Snapshot: student.Snapshot{ID: "X1", Name: "Bad"}},
			{Number: 3, Snapshot: student.Snapshot{ID: "S010", Name: "Over", Grades: map[string]float64{"Fisika": 120}}},
			{Number: 4, Snapshot: student.Snapshot{ID: "S011", Name: ""}, Problem: "missing name"},
			{Number: 5, Snapshot: student.Snapshot{ID: "S012", Name: "Ok", Grades: map[string]float64{}}},
			{Number: 6, Snapshot: student.Snapshot{ID: "S012", Name: "Twice", Grades: map[string]float64{}}},
		}, nil
	}

	res, err := h.ImportStudents.Handle(context.Background(), ImportStudentsCommand{Path: "ignored.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, []string{"S012"}, res.Added)

	rows := make([]int, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		rows = append(rows, s.Row)
	}
	assert.Equal(t, []int{2, 3, 4, 6}, rows)
	assert.Equal(t, "missing name", res.Skipped[2].Reason)

	assert.Equal(t, 1, sess.Roster().StudentCount())
	assert.Equal(t, 1, store.saves)
}

func TestImportStudents_NothingAddedDoesNotWrite(t *testing.T) {
	h, _, store := newTestHandlers(t)
	h.ImportStudents.read = func(path string) (string, []spreadsheet.Row, error) {
		return "Siswa", nil, nil
	}

	res, err := h.ImportStudents.Handle(context.Background(), ImportStudentsCommand{Path: "empty.xlsx"})
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Zero(t, store.saves)
}

func TestImportStudents_ReadError(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	boom := errors.New("corrupt zip")
	h.ImportStudents.read = func(path string) (string, []spreadsheet.Row, error) {
		return "", nil, boom
	}

	_, err := h.ImportStudents.Handle(context.Background(), ImportStudentsCommand{Path: "x.xlsx"})
	assert.ErrorIs(t, err, boom)
}
