package query

import (
	"context"
	"strings"

	"github.com/nilai-hub/student-grades/internal/application/session"
)

// ListStudentsQuery lists students in roster order.
type ListStudentsQuery struct {
	// Class narrows the list, ignoring case. Empty means everyone.
	Class string
}

// ListStudentsResult contains the listed students.
type ListStudentsResult struct {
	Students []StudentDTO
	Total    int
}

// ListStudentsHandler handles ListStudentsQuery.
type ListStudentsHandler struct {
	session *session.Session
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(sess *session.Session) *ListStudentsHandler {
	return &ListStudentsHandler{session: sess}
}

// Handle executes the query.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) (*ListStudentsResult, error) {
	roster := h.session.Roster()

	records := roster.AllStudents()
	if strings.TrimSpace(q.Class) != "" {
		records = roster.StudentsByClass(q.Class)
	}

	return &ListStudentsResult{
		Students: toStudentDTOs(records),
		Total:    roster.StudentCount(),
	}, nil
}
