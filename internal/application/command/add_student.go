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
// ADD STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentCommand registers a new student without grades.
type AddStudentCommand struct {
	ID    string `validate:"studentid"`
	Name  string `validate:"notblank"`
	Class string

	// CorrelationID for tracing. Generated when empty.
	CorrelationID string
}

// AddStudentResult contains the stored record.
type AddStudentResult struct {
	Record *student.Record
}

// AddStudentHandler handles AddStudentCommand.
type AddStudentHandler struct {
	session *session.Session
	log     *logger.Logger
}

// NewAddStudentHandler creates a new AddStudentHandler.
func NewAddStudentHandler(sess *session.Session, log *logger.Logger) *AddStudentHandler {
	return &AddStudentHandler{session: sess, log: log}
}

// Handle executes the add student command.
func (h *AddStudentHandler) Handle(ctx context.Context, cmd AddStudentCommand) (*AddStudentResult, error) {
	log := opLogger(h.log, "add_student", correlate(cmd.CorrelationID)).With(logger.StudentID(cmd.ID))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("add_student: %w", err)
	}

	if err := validation.Struct(cmd); err != nil {
		log.Debug("rejected", logger.Err(err))
		return nil, fmt.Errorf("add_student: %w", err)
	}

	roster := h.session.Roster()
	if _, exists := roster.FindStudent(cmd.ID); exists {
		log.Debug("rejected", logger.Reason("duplicate id"))
		return nil, fmt.Errorf("add_student: %w", shared.ErrStudentAlreadyExists)
	}

	record := student.NewRecord(cmd.ID, cmd.Name, cmd.Class, nil)
	if !roster.AddStudent(record) {
		return nil, fmt.Errorf("add_student: %w", shared.ErrStudentAlreadyExists)
	}

	if err := h.session.Persist(ctx); err != nil {
		return nil, fmt.Errorf("add_student: %w", err)
	}

	log.Info("student added", logger.ClassName(cmd.Class))
	return &AddStudentResult{Record: record}, nil
}
