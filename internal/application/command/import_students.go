package command

import (
	"context"
	"fmt"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/application/validation"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/internal/infrastructure/spreadsheet"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT STUDENTS COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ImportStudentsCommand adds every valid student row of an .xlsx workbook.
type ImportStudentsCommand struct {
	Path string `validate:"required"`

	CorrelationID string
}

// SkippedRow is a sheet row that did not become a student.
type SkippedRow struct {
	Row    int
	ID     string
	Reason string
}

// ImportStudentsResult summarizes an import.
type ImportStudentsResult struct {
	Sheet   string
	Added   []string
	Skipped []SkippedRow
}

// ImportStudentsHandler handles ImportStudentsCommand.
type ImportStudentsHandler struct {
	session *session.Session
	log     *logger.Logger
	read    func(path string) (string, []spreadsheet.Row, error)
}

// NewImportStudentsHandler creates a new ImportStudentsHandler.
func NewImportStudentsHandler(sess *session.Session, log *logger.Logger) *ImportStudentsHandler {
	return &ImportStudentsHandler{session: sess, log: log, read: spreadsheet.ReadFile}
}

// Handle executes the import. Rows with a bad id, a blank name, an
// out-of-range score or an id already on the roster are skipped.
// The roster is persisted once, and only if something was added.
func (h *ImportStudentsHandler) Handle(ctx context.Context, cmd ImportStudentsCommand) (*ImportStudentsResult, error) {
	log := opLogger(h.log, "import_students", correlate(cmd.CorrelationID)).With(logger.Path(cmd.Path))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("import_students: %w", err)
	}

	if err := validation.Struct(cmd); err != nil {
		return nil, fmt.Errorf("import_students: %w", err)
	}

	sheet, rows, err := h.read(cmd.Path)
	if err != nil {
		log.Error("failed to read workbook", logger.Err(err))
		return nil, fmt.Errorf("import_students: %w", err)
	}

	roster := h.session.Roster()
	result := &ImportStudentsResult{Sheet: sheet, Added: make([]string, 0, len(rows))}

	skip := func(row spreadsheet.Row, reason string) {
		result.Skipped = append(result.Skipped, SkippedRow{Row: row.Number, ID: row.Snapshot.ID, Reason: reason})
		log.Warn("row skipped",
			logger.Sheet(sheet),
			logger.Row(row.Number),
			logger.StudentID(row.Snapshot.ID),
			logger.Reason(reason),
		)
	}

	for _, row := range rows {
		if !row.OK() {
			skip(row, row.Problem)
			continue
		}
		if err := row.Snapshot.Validate(); err != nil {
			skip(row, err.Error())
			continue
		}
		if !roster.AddStudent(student.RecordFromSnapshot(row.Snapshot)) {
			skip(row, "id already on the roster")
			continue
		}
		result.Added = append(result.Added, row.Snapshot.ID)
	}

	if len(result.Added) > 0 {
		if err := h.session.Persist(ctx); err != nil {
			return nil, fmt.Errorf("import_students: %w", err)
		}
	}

	log.Info("import finished",
		logger.Sheet(sheet),
		logger.Count("added", len(result.Added)),
		logger.Count("skipped", len(result.Skipped)),
	)
	return result, nil
}
