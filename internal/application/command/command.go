// Package command contains the roster write operations.
// Each handler validates its command, mutates the session roster and, only
// when the mutation succeeded, persists the whole roster.
package command

import (
	"github.com/google/uuid"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// Handlers groups every command handler over one session.
type Handlers struct {
	AddStudent     *AddStudentHandler
	UpdateStudent  *UpdateStudentHandler
	RemoveStudent  *RemoveStudentHandler
	AddGrade       *AddGradeHandler
	ImportStudents *ImportStudentsHandler
}

// NewHandlers wires all command handlers to sess.
func NewHandlers(sess *session.Session, log *logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{
		AddStudent:     NewAddStudentHandler(sess, log),
		UpdateStudent:  NewUpdateStudentHandler(sess, log),
		RemoveStudent:  NewRemoveStudentHandler(sess, log),
		AddGrade:       NewAddGradeHandler(sess, log),
		ImportStudents: NewImportStudentsHandler(sess, log),
	}
}

// correlate returns id, or a fresh one when id is empty.
func correlate(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// opLogger tags log lines with the operation and correlation id.
func opLogger(log *logger.Logger, op, correlationID string) *logger.Logger {
	if log == nil {
		log = logger.Nop()
	}
	return log.With(logger.Operation(op), logger.CorrelationID(correlationID))
}
