package query

import (
	"context"
	"fmt"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/internal/domain/shared"
)

// FindStudentQuery looks up one student by exact id.
type FindStudentQuery struct {
	ID string
}

// FindStudentHandler handles FindStudentQuery.
type FindStudentHandler struct {
	session *session.Session
}

// NewFindStudentHandler creates a new FindStudentHandler.
func NewFindStudentHandler(sess *session.Session) *FindStudentHandler {
	return &FindStudentHandler{session: sess}
}

// Handle returns the student or ErrStudentNotFound.
func (h *FindStudentHandler) Handle(ctx context.Context, q FindStudentQuery) (*StudentDTO, error) {
	record, ok := h.session.Roster().FindStudent(q.ID)
	if !ok {
		return nil, fmt.Errorf("find_student: %w", shared.ErrStudentNotFound)
	}

	dto := toStudentDTO(record)
	return &dto, nil
}
