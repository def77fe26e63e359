package spreadsheet

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nilai-hub/student-grades/internal/domain/student"
)

func sampleRecords() []*student.Record {
	return []*student.Record{
		student.NewRecord("S001", "Ani", "XII-A", map[string]float64{"Matematika": 90, "Biologi": 70.5}),
		student.NewRecord("S002", "Budi", "XII-B", map[string]float64{"Fisika": 60}),
		student.NewRecord("S003", "Citra", "XII-A", nil),
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRecords(), nil))

	sheet, rows, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, StudentSheet, sheet)
	require.Len(t, rows, 3)

	for _, r := range rows {
		assert.True(t, r.OK(), "row %d: %s", r.Number, r.Problem)
	}

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, student.Snapshot{
		ID:     "S001",
		Name:   "Ani",
		Class:  "XII-A",
		Grades: map[string]float64{"Matematika": 90, "Biologi": 70.5},
	}, rows[0].Snapshot)
	assert.Equal(t, map[string]float64{"Fisika": 60}, rows[1].Snapshot.Grades)
	assert.Empty(t, rows[2].Snapshot.Grades)
}

func TestWriteFile_StatisticsSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	records := sampleRecords()

	roster := student.NewRoster()
	for _, r := range records {
		require.True(t, roster.AddStudent(r))
	}
	stats, ok := roster.ClassStatistics("XII-A")
	require.True(t, ok)

	require.NoError(t, WriteFile(path, records, []student.ClassStatistics{stats}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StudentSheet, StatisticsSheet}, f.GetSheetList())

	header, err := f.GetRows(StudentSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Nama", "Kelas", "Biologi", "Fisika", "Matematika", "Rata-rata", "Status"}, header[0])
	assert.Equal(t, "Lulus", header[1][7])

	statRows, err := f.GetRows(StatisticsSheet)
	require.NoError(t, err)
	require.Len(t, statRows, 2)
	assert.Equal(t, "XII-A", statRows[1][0])
	assert.Equal(t, "2", statRows[1][1])
}

func TestRead_ProblemRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	rows := [][]any{
		{"ID", "Nama", "Kelas", "Matematika", "Rata-rata"},
		{"S001", "Ani", "XII-A", "88,5", "88.5"},
		{"", "Tanpa ID", "XII-A"},
		{},
		{"S003", "", "XII-A"},
		{"S004", "Dodi", "XII-B", "sembilan"},
		{"S005", "Eka", "", ""},
	}
	for i, values := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		v := values
		require.NoError(t, f.SetSheetRow(sheet, cellName, &v))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	name, parsed, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, sheet, name)
	require.Len(t, parsed, 5, "blank rows are skipped")

	assert.True(t, parsed[0].OK())
	assert.Equal(t, map[string]float64{"Matematika": 88.5}, parsed[0].Snapshot.Grades)

	assert.Equal(t, 3, parsed[1].Number)
	assert.Equal(t, "missing id", parsed[1].Problem)

	assert.Equal(t, 5, parsed[2].Number)
	assert.Equal(t, "missing name", parsed[2].Problem)

	assert.Contains(t, parsed[3].Problem, "Matematika")

	assert.True(t, parsed[4].OK())
	assert.Empty(t, parsed[4].Snapshot.Class)
}

func TestRead_EmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	_, _, err := Read(&buf)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadFile_Missing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestWriteRead_SubjectsNamedLikeHeaders(t *testing.T) {
	grades := map[string]float64{"Status": 80, "rata-rata": 70, "Nilai: Akhir": 60, "Kimia": 90}
	records := []*student.Record{student.NewRecord("S001", "Ani", "XII-A", grades)}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows(StudentSheet)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, []string{
		"ID", "Nama", "Kelas",
		"Kimia", "Nilai: Nilai: Akhir", "Nilai: Status", "Nilai: rata-rata",
		"Rata-rata", "Status",
	}, rows[0])

	seen := make(map[string]bool)
	for _, h := range rows[0] {
		assert.False(t, seen[h], "duplicate header %q", h)
		seen[h] = true
	}

	_, parsed, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.True(t, parsed[0].OK(), parsed[0].Problem)
	assert.Equal(t, grades, parsed[0].Snapshot.Grades)
}
