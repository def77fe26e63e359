package student

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// PassStatus is the derived pass/fail label of a record.
type PassStatus string

const (
	// StatusPassed - average at or above PassThreshold.
	StatusPassed PassStatus = "Lulus"
	// StatusFailed - average below PassThreshold.
	StatusFailed PassStatus = "Tidak Lulus"
)

// IsPassed reports whether the status is a pass.
func (p PassStatus) IsPassed() bool {
	return p == StatusPassed
}

// String returns the label as shown to users.
func (p PassStatus) String() string {
	return string(p)
}

const (
	// PassThreshold is the minimum average for StatusPassed.
	PassThreshold = 75.0

	// MinScore and MaxScore bound every stored score (inclusive).
	MinScore = 0.0
	MaxScore = 100.0
)

var idPattern = regexp.MustCompile(`^S\d{3}$`)

// IsValidID reports whether id is "S" followed by exactly three digits.
// Records never check this themselves; callers do before construction.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// IsValidScore reports whether score is a finite number in [MinScore, MaxScore].
func IsValidScore(score float64) bool {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return false
	}
	return score >= MinScore && score <= MaxScore
}

// isBlank reports whether s is empty or whitespace only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is one student's identity and grades.
// The grade map is private; use AddGrade and Grades.
type Record struct {
	id     string
	name   string
	class  string
	grades map[string]float64
}

// NewRecord creates a record. The grades map is copied; nil means no grades.
func NewRecord(id, name, class string, grades map[string]float64) *Record {
	return &Record{
		id:     id,
		name:   name,
		class:  class,
		grades: copyGrades(grades),
	}
}

// ID returns the immutable student identifier.
func (r *Record) ID() string { return r.id }

// Name returns the student name.
func (r *Record) Name() string { return r.name }

// Class returns the class label as stored.
func (r *Record) Class() string { return r.class }

// AddGrade inserts or overwrites the score for subject.
// Returns false without mutating when score is not a finite number in [0,100].
func (r *Record) AddGrade(subject string, score float64) bool {
	if !IsValidScore(score) {
		return false
	}
	r.grades[subject] = score
	return true
}

// Average returns the arithmetic mean of all scores, or 0 with no scores.
func (r *Record) Average() float64 {
	if len(r.grades) == 0 {
		return 0
	}

	// Sum in subject order so equal grade sets give bit-identical averages.
	var total float64
	for _, subject := range r.Subjects() {
		total += r.grades[subject]
	}
	return total / float64(len(r.grades))
}

// GradeStatus derives the pass status from Average.
func (r *Record) GradeStatus() PassStatus {
	if r.Average() >= PassThreshold {
		return StatusPassed
	}
	return StatusFailed
}

// Grades returns a copy of the subject -> score mapping.
func (r *Record) Grades() map[string]float64 {
	return copyGrades(r.grades)
}

// Subjects returns the graded subject names in lexical order.
func (r *Record) Subjects() []string {
	subjects := make([]string, 0, len(r.grades))
	for subject := range r.grades {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// Snapshot returns the plain-data form of the record.
func (r *Record) Snapshot() Snapshot {
	return Snapshot{
		ID:     r.id,
		Name:   r.name,
		Class:  r.class,
		Grades: r.Grades(),
	}
}

// rename and moveClass are only reachable through Roster.UpdateStudent,
// which owns the non-blank name check.
func (r *Record) rename(name string)        { r.name = name }
func (r *Record) moveClass(class string)    { r.class = class }
func (r *Record) inClass(class string) bool { return strings.EqualFold(r.class, class) }

func copyGrades(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for subject, score := range src {
		dst[subject] = score
	}
	return dst
}
