// Package spreadsheet moves the roster in and out of .xlsx workbooks.
//
// Layout of the student sheet: a header row, then one student per row.
// Columns A-C are ID, Nama, Kelas; every further column is a subject whose
// header is the subject name. Export appends Rata-rata and Status columns,
// which import ignores. A subject named like one of those headers is written
// as "Nilai: <name>" and read back without the prefix.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nilai-hub/student-grades/internal/domain/student"
)

const (
	// StudentSheet holds one row per student.
	StudentSheet = "Siswa"

	// StatisticsSheet holds one row per class. Export only.
	StatisticsSheet = "Statistik Kelas"

	headerID      = "ID"
	headerName    = "Nama"
	headerClass   = "Kelas"
	headerAverage = "Rata-rata"
	headerStatus  = "Status"

	fixedColumns = 3

	// subjectPrefix marks a subject column whose name is also a header.
	subjectPrefix = "Nilai: "
)

var reservedHeaders = []string{headerID, headerName, headerClass, headerAverage, headerStatus}

var (
	// ErrNoSheets is returned for a workbook without any sheet.
	ErrNoSheets = errors.New("spreadsheet: workbook has no sheets")

	// ErrNoHeader is returned when the student sheet is empty.
	ErrNoHeader = errors.New("spreadsheet: missing header row")
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT
// ══════════════════════════════════════════════════════════════════════════════

// Row is one parsed data row. Problem is set when the row cannot become a
// student; Snapshot then holds whatever was readable.
type Row struct {
	// Number is the 1-based sheet row, as shown by spreadsheet programs.
	Number   int
	Snapshot student.Snapshot
	Problem  string
}

// OK reports whether the row parsed cleanly.
func (r Row) OK() bool {
	return r.Problem == ""
}

// ReadFile opens path and parses its student sheet.
func ReadFile(path string) (string, []Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("spreadsheet: open %s: %w", path, err)
	}
	defer f.Close()

	return readWorkbook(f)
}

// Read parses a workbook from r.
func Read(r io.Reader) (string, []Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("spreadsheet: open reader: %w", err)
	}
	defer f.Close()

	return readWorkbook(f)
}

// readWorkbook uses the "Siswa" sheet when present, otherwise the first one.
// It returns the sheet name it read.
func readWorkbook(f *excelize.File) (string, []Row, error) {
	sheet := ""
	if idx, err := f.GetSheetIndex(StudentSheet); err == nil && idx >= 0 {
		sheet = StudentSheet
	} else {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return "", nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return sheet, nil, fmt.Errorf("spreadsheet: rows of %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return sheet, nil, ErrNoHeader
	}

	subjects := subjectColumns(rows[0])
	out := make([]Row, 0, len(rows)-1)

	for i, cells := range rows[1:] {
		if isEmptyRow(cells) {
			continue
		}
		out = append(out, parseRow(i+2, cells, subjects))
	}

	return sheet, out, nil
}

// subjectColumns maps column index to subject name for the header row.
func subjectColumns(header []string) map[int]string {
	subjects := make(map[int]string)
	for col := fixedColumns; col < len(header); col++ {
		name := strings.TrimSpace(header[col])
		if subject, ok := strings.CutPrefix(name, subjectPrefix); ok {
			if subject != "" {
				subjects[col] = subject
			}
			continue
		}
		if name == "" || isReservedHeader(name) {
			continue
		}
		subjects[col] = name
	}
	return subjects
}

func isReservedHeader(name string) bool {
	for _, h := range reservedHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

// subjectHeader is the column header for subject.
func subjectHeader(subject string) string {
	trimmed := strings.TrimSpace(subject)
	if isReservedHeader(trimmed) || strings.HasPrefix(trimmed, subjectPrefix) {
		return subjectPrefix + subject
	}
	return subject
}

func parseRow(number int, cells []string, subjects map[int]string) Row {
	row := Row{
		Number: number,
		Snapshot: student.Snapshot{
			ID:     strings.TrimSpace(cell(cells, 0)),
			Name:   strings.TrimSpace(cell(cells, 1)),
			Class:  strings.TrimSpace(cell(cells, 2)),
			Grades: make(map[string]float64),
		},
	}

	if row.Snapshot.ID == "" {
		row.Problem = "missing id"
		return row
	}
	if row.Snapshot.Name == "" {
		row.Problem = "missing name"
		return row
	}

	cols := make([]int, 0, len(subjects))
	for col := range subjects {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	for _, col := range cols {
		raw := strings.TrimSpace(cell(cells, col))
		if raw == "" {
			continue
		}
		score, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			row.Problem = fmt.Sprintf("%s: %q is not a number", subjects[col], raw)
			return row
		}
		row.Snapshot.Grades[subjects[col]] = score
	}

	return row
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT
// ══════════════════════════════════════════════════════════════════════════════

// WriteFile saves records and class statistics to a new workbook at path.
func WriteFile(path string, records []*student.Record, stats []student.ClassStatistics) error {
	f, err := build(records, stats)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("spreadsheet: save %s: %w", path, err)
	}
	return nil
}

// Write streams the workbook to w.
func Write(w io.Writer, records []*student.Record, stats []student.ClassStatistics) error {
	f, err := build(records, stats)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("spreadsheet: write: %w", err)
	}
	return nil
}

func build(records []*student.Record, stats []student.ClassStatistics) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), StudentSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("spreadsheet: rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("spreadsheet: header style: %w", err)
	}

	if err := writeStudents(f, records, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeStatistics(f, stats, bold); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeStudents(f *excelize.File, records []*student.Record, headerStyle int) error {
	subjects := allSubjects(records)

	header := []any{headerID, headerName, headerClass}
	for _, s := range subjects {
		header = append(header, subjectHeader(s))
	}
	header = append(header, headerAverage, headerStatus)

	if err := setRow(f, StudentSheet, 1, header); err != nil {
		return err
	}

	for i, r := range records {
		grades := r.Grades()
		values := []any{r.ID(), r.Name(), r.Class()}
		for _, s := range subjects {
			if score, ok := grades[s]; ok {
				values = append(values, score)
			} else {
				values = append(values, nil)
			}
		}
		values = append(values, round2(r.Average()), r.GradeStatus().String())

		if err := setRow(f, StudentSheet, i+2, values); err != nil {
			return err
		}
	}

	return styleHeader(f, StudentSheet, len(header), headerStyle)
}

func writeStatistics(f *excelize.File, stats []student.ClassStatistics, headerStyle int) error {
	if _, err := f.NewSheet(StatisticsSheet); err != nil {
		return fmt.Errorf("spreadsheet: add sheet: %w", err)
	}

	header := []any{"Kelas", "Jumlah Siswa", "Rata-rata Kelas", "Lulus", "Tidak Lulus", "Persentase Lulus", "Tertinggi", "Terendah"}
	if err := setRow(f, StatisticsSheet, 1, header); err != nil {
		return err
	}

	for i, s := range stats {
		values := []any{
			s.ClassName,
			s.TotalStudents,
			round2(s.ClassAverage),
			s.PassedStudents,
			s.FailedStudents,
			round2(s.PassRate),
			round2(s.HighestAverage),
			round2(s.LowestAverage),
		}
		if err := setRow(f, StatisticsSheet, i+2, values); err != nil {
			return err
		}
	}

	return styleHeader(f, StatisticsSheet, len(header), headerStyle)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("spreadsheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("spreadsheet: %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns, style int) error {
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return fmt.Errorf("spreadsheet: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("spreadsheet: header style: %w", err)
	}
	return nil
}

// allSubjects returns the union of graded subjects, sorted.
func allSubjects(records []*student.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, s := range r.Subjects() {
			seen[s] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
