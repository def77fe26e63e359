package query

import (
	"context"
	"fmt"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// ClassReportQuery asks for one class's statistics and members.
// Class is free-form; an empty label matches students without a class.
type ClassReportQuery struct {
	Class string

	CorrelationID string
}

// ClassReportResult contains the statistics and the class members.
type ClassReportResult struct {
	Statistics ClassStatisticsDTO
	Students   []StudentDTO
}

// ClassReportHandler handles ClassReportQuery.
type ClassReportHandler struct {
	session *session.Session
	log     *logger.Logger
}

// NewClassReportHandler creates a new ClassReportHandler.
func NewClassReportHandler(sess *session.Session, log *logger.Logger) *ClassReportHandler {
	return &ClassReportHandler{session: sess, log: log}
}

// Handle executes the query. A class without students is ErrClassNotFound.
func (h *ClassReportHandler) Handle(ctx context.Context, q ClassReportQuery) (*ClassReportResult, error) {
	roster := h.session.Roster()
	stats, ok := roster.ClassStatistics(q.Class)
	if !ok {
		return nil, fmt.Errorf("class_report: %w", shared.ErrClassNotFound)
	}

	opLogger(h.log, "class_report", q.CorrelationID).Debug("class report built",
		logger.ClassName(q.Class),
		logger.Count("students", stats.TotalStudents),
	)

	return &ClassReportResult{
		Statistics: toClassStatisticsDTO(stats),
		Students:   toStudentDTOs(roster.StudentsByClass(q.Class)),
	}, nil
}
