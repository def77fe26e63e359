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
// UPDATE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand changes a student's name and/or class.
// nil values mean "don't change". The id itself never changes.
type UpdateStudentCommand struct {
	ID    string  `validate:"studentid"`
	Name  *string `validate:"omitempty,notblank"`
	Class *string

	CorrelationID string
}

// UpdateStudentResult contains the updated record.
type UpdateStudentResult struct {
	Record *student.Record

	// ChangedFields lists which fields were changed.
	ChangedFields []string
}

// UpdateStudentHandler handles UpdateStudentCommand.
type UpdateStudentHandler struct {
	session *session.Session
	log     *logger.Logger
}

// NewUpdateStudentHandler creates a new UpdateStudentHandler.
func NewUpdateStudentHandler(sess *session.Session, log *logger.Logger) *UpdateStudentHandler {
	return &UpdateStudentHandler{session: sess, log: log}
}

// Handle executes the update student command.
// An empty patch fails with ErrNothingToUpdate and writes nothing.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*UpdateStudentResult, error) {
	log := opLogger(h.log, "update_student", correlate(cmd.CorrelationID)).With(logger.StudentID(cmd.ID))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}

	if err := validation.Struct(cmd); err != nil {
		log.Debug("rejected", logger.Err(err))
		return nil, fmt.Errorf("update_student: %w", err)
	}

	roster := h.session.Roster()
	record, ok := roster.FindStudent(cmd.ID)
	if !ok {
		return nil, fmt.Errorf("update_student: %w", shared.ErrStudentNotFound)
	}

	patch := student.Patch{Name: cmd.Name, Class: cmd.Class}
	if patch.IsEmpty() {
		return nil, fmt.Errorf("update_student: %w", shared.ErrNothingToUpdate)
	}

	changed := make([]string, 0, 2)
	if cmd.Name != nil && *cmd.Name != record.Name() {
		changed = append(changed, "name")
	}
	if cmd.Class != nil && *cmd.Class != record.Class() {
		changed = append(changed, "class")
	}

	if !roster.UpdateStudent(cmd.ID, patch) {
		return nil, fmt.Errorf("update_student: %w", shared.ErrBlankName)
	}

	if err := h.session.Persist(ctx); err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}

	log.Info("student updated", logger.Changed(changed))
	return &UpdateStudentResult{Record: record, ChangedFields: changed}, nil
}
