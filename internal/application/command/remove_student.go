package command

import (
	"context"
	"fmt"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RemoveStudentCommand deletes a student and all their grades.
type RemoveStudentCommand struct {
	ID string

	CorrelationID string
}

// RemoveStudentResult reports what was removed.
type RemoveStudentResult struct {
	ID   string
	Name string

	// Remaining is the roster size after removal.
	Remaining int
}

// RemoveStudentHandler handles RemoveStudentCommand.
type RemoveStudentHandler struct {
	session *session.Session
	log     *logger.Logger
}

// NewRemoveStudentHandler creates a new RemoveStudentHandler.
func NewRemoveStudentHandler(sess *session.Session, log *logger.Logger) *RemoveStudentHandler {
	return &RemoveStudentHandler{session: sess, log: log}
}

// Handle executes the remove student command.
// Any id is accepted; an unknown one is ErrStudentNotFound.
func (h *RemoveStudentHandler) Handle(ctx context.Context, cmd RemoveStudentCommand) (*RemoveStudentResult, error) {
	log := opLogger(h.log, "remove_student", correlate(cmd.CorrelationID)).With(logger.StudentID(cmd.ID))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("remove_student: %w", err)
	}

	roster := h.session.Roster()
	record, ok := roster.FindStudent(cmd.ID)
	if !ok || !roster.RemoveStudent(cmd.ID) {
		return nil, fmt.Errorf("remove_student: %w", shared.ErrStudentNotFound)
	}

	if err := h.session.Persist(ctx); err != nil {
		return nil, fmt.Errorf("remove_student: %w", err)
	}

	log.Info("student removed")
	return &RemoveStudentResult{
		ID:        record.ID(),
		Name:      record.Name(),
		Remaining: roster.StudentCount(),
	}, nil
}
