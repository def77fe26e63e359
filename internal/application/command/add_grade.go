package command

import (
	"context"
	"fmt"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/application/validation"
	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddGradeCommand sets one subject score. An existing score is overwritten.
type AddGradeCommand struct {
	StudentID string  `validate:"studentid"`
	Subject   string  `validate:"notblank"`
	Score     float64 `validate:"gte=0,lte=100"`

	CorrelationID string
}

// AddGradeResult carries the record's standing after the change.
type AddGradeResult struct {
	Record *student.Record

	// Replaced is true when the subject already had a score.
	Replaced      bool
	PreviousScore float64

	Average float64
	Status  student.PassStatus
}

// AddGradeHandler handles AddGradeCommand.
type AddGradeHandler struct {
	session *session.Session
	log     *logger.Logger
}

// NewAddGradeHandler creates a new AddGradeHandler.
func NewAddGradeHandler(sess *session.Session, log *logger.Logger) *AddGradeHandler {
	return &AddGradeHandler{session: sess, log: log}
}

// Handle executes the add grade command.
func (h *AddGradeHandler) Handle(ctx context.Context, cmd AddGradeCommand) (*AddGradeResult, error) {
	log := opLogger(h.log, "add_grade", correlate(cmd.CorrelationID)).With(
		logger.StudentID(cmd.StudentID),
		logger.Subject(cmd.Subject),
	)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("add_grade: %w", err)
	}

	if err := validation.Struct(cmd); err != nil {
		log.Debug("rejected", logger.Err(err))
		return nil, fmt.Errorf("add_grade: %w", err)
	}

	record, ok := h.session.Roster().FindStudent(cmd.StudentID)
	if !ok {
		return nil, fmt.Errorf("add_grade: %w", shared.ErrStudentNotFound)
	}

	previous, replaced := record.Grades()[cmd.Subject]
	if !record.AddGrade(cmd.Subject, cmd.Score) {
		return nil, fmt.Errorf("add_grade: %w", shared.ErrScoreOutOfRange)
	}

	if err := h.session.Persist(ctx); err != nil {
		return nil, fmt.Errorf("add_grade: %w", err)
	}

	result := &AddGradeResult{
		Record:        record,
		Replaced:      replaced,
		PreviousScore: previous,
		Average:       record.Average(),
		Status:        record.GradeStatus(),
	}

	log.Info("grade recorded",
		logger.Score(cmd.Score),
		logger.Average(result.Average),
		logger.Status(result.Status.String()),
	)
	return result, nil
}
