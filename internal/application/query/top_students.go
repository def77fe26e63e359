package query

import (
	"context"

	"github.com/nilai-hub/student-grades/internal/application/session"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// DefaultTopN is used when neither the query nor the handler sets N.
const DefaultTopN = 3

// TopStudentsQuery ranks students by average, highest first.
type TopStudentsQuery struct {
	// N is the number of students. 0 means the handler default.
	N int

	CorrelationID string
}

// TopStudentsHandler handles TopStudentsQuery.
type TopStudentsHandler struct {
	session  *session.Session
	defaultN int
	log      *logger.Logger
}

// NewTopStudentsHandler creates a new TopStudentsHandler.
func NewTopStudentsHandler(sess *session.Session, defaultN int, log *logger.Logger) *TopStudentsHandler {
	if defaultN <= 0 {
		defaultN = DefaultTopN
	}
	return &TopStudentsHandler{session: sess, defaultN: defaultN, log: log}
}

// Handle returns up to N students. Equal averages keep roster order.
// A negative N yields an empty ranking.
func (h *TopStudentsHandler) Handle(ctx context.Context, q TopStudentsQuery) ([]RankedStudentDTO, error) {
	n := q.N
	if n == 0 {
		n = h.defaultN
	}

	top := h.session.Roster().TopStudents(n)
	out := make([]RankedStudentDTO, 0, len(top))
	for i, r := range top {
		out = append(out, RankedStudentDTO{Rank: i + 1, StudentDTO: toStudentDTO(r)})
	}

	opLogger(h.log, "top_students", q.CorrelationID).Debug("ranking built", logger.Limit(n), logger.Count("returned", len(out)))
	return out, nil
}
