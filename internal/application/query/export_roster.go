package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/application/validation"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/internal/infrastructure/spreadsheet"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// ExportRosterQuery writes the roster to an .xlsx workbook.
type ExportRosterQuery struct {
	Path string `validate:"required"`

	CorrelationID string
}

// ExportRosterResult reports what was written.
type ExportRosterResult struct {
	Path     string
	Students int
	Classes  []string
}

// ExportRosterHandler handles ExportRosterQuery.
type ExportRosterHandler struct {
	session *session.Session
	log     *logger.Logger
	write   func(path string, records []*student.Record, stats []student.ClassStatistics) error
}

// NewExportRosterHandler creates a new ExportRosterHandler.
func NewExportRosterHandler(sess *session.Session, log *logger.Logger) *ExportRosterHandler {
	return &ExportRosterHandler{session: sess, log: log, write: spreadsheet.WriteFile}
}

// Handle writes every student plus one statistics row per class.
// Classes are grouped ignoring case, in order of first appearance.
func (h *ExportRosterHandler) Handle(ctx context.Context, q ExportRosterQuery) (*ExportRosterResult, error) {
	log := opLogger(h.log, "export_roster", q.CorrelationID).With(logger.Path(q.Path))

	if err := validation.Struct(q); err != nil {
		return nil, fmt.Errorf("export_roster: %w", err)
	}

	roster := h.session.Roster()
	records := roster.AllStudents()
	classes := distinctClasses(records)

	stats := make([]student.ClassStatistics, 0, len(classes))
	for _, class := range classes {
		if s, ok := roster.ClassStatistics(class); ok {
			stats = append(stats, s)
		}
	}

	if err := h.write(q.Path, records, stats); err != nil {
		log.Error("export failed", logger.Err(err))
		return nil, fmt.Errorf("export_roster: %w", err)
	}

	log.Info("roster exported", logger.Count("students", len(records)), logger.Count("classes", len(classes)))
	return &ExportRosterResult{Path: q.Path, Students: len(records), Classes: classes}, nil
}

func distinctClasses(records []*student.Record) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		key := strings.ToLower(r.Class())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r.Class())
	}
	return out
}
