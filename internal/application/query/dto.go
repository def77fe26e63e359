// Package query contains the roster read operations.
// Results are plain DTOs; callers never receive live records.
package query

import (
	"github.com/google/uuid"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DTOs
// ══════════════════════════════════════════════════════════════════════════════

// GradeDTO is one subject score.
type GradeDTO struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// StudentDTO is a read-only view of a record.
type StudentDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`

	// Grades are sorted by subject name.
	Grades []GradeDTO `json:"grades"`

	Average float64 `json:"average"`
	Status  string  `json:"status"`
	Passed  bool    `json:"passed"`
}

// RankedStudentDTO is a StudentDTO with its 1-based ranking position.
type RankedStudentDTO struct {
	Rank int `json:"rank"`
	StudentDTO
}

// ClassStatisticsDTO mirrors student.ClassStatistics.
type ClassStatisticsDTO struct {
	ClassName      string  `json:"class_name"`
	TotalStudents  int     `json:"total_students"`
	ClassAverage   float64 `json:"class_average"`
	PassedStudents int     `json:"passed_students"`
	FailedStudents int     `json:"failed_students"`
	PassRate       float64 `json:"pass_rate"`
	HighestAverage float64 `json:"highest_average"`
	LowestAverage  float64 `json:"lowest_average"`
}

func toStudentDTO(r *student.Record) StudentDTO {
	grades := r.Grades()
	dto := StudentDTO{
		ID:      r.ID(),
		Name:    r.Name(),
		Class:   r.Class(),
		Grades:  make([]GradeDTO, 0, len(grades)),
		Average: r.Average(),
		Status:  r.GradeStatus().String(),
		Passed:  r.GradeStatus().IsPassed(),
	}
	for _, subject := range r.Subjects() {
		dto.Grades = append(dto.Grades, GradeDTO{Subject: subject, Score: grades[subject]})
	}
	return dto
}

func toStudentDTOs(records []*student.Record) []StudentDTO {
	out := make([]StudentDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toStudentDTO(r))
	}
	return out
}

func toClassStatisticsDTO(s student.ClassStatistics) ClassStatisticsDTO {
	return ClassStatisticsDTO{
		ClassName:      s.ClassName,
		TotalStudents:  s.TotalStudents,
		ClassAverage:   s.ClassAverage,
		PassedStudents: s.PassedStudents,
		FailedStudents: s.FailedStudents,
		PassRate:       s.PassRate,
		HighestAverage: s.HighestAverage,
		LowestAverage:  s.LowestAverage,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// Handlers groups every query handler over one session.
type Handlers struct {
	FindStudent  *FindStudentHandler
	ListStudents *ListStudentsHandler
	TopStudents  *TopStudentsHandler
	ClassReport  *ClassReportHandler
	ExportRoster *ExportRosterHandler
}

// NewHandlers wires all query handlers to sess. topN is the default for
// TopStudentsQuery.N.
func NewHandlers(sess *session.Session, topN int, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{
		FindStudent:  NewFindStudentHandler(sess),
		ListStudents: NewListStudentsHandler(sess),
		TopStudents:  NewTopStudentsHandler(sess, topN, log),
		ClassReport:  NewClassReportHandler(sess, log),
		ExportRoster: NewExportRosterHandler(sess, log),
	}
}

func opLogger(log *logger.Logger, op, correlationID string) *logger.Logger {
	if log == nil {
		log = logger.Nop()
	}
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return log.With(logger.Operation(op), logger.CorrelationID(correlationID))
}
