package student

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Snapshot is the persisted form of a Record.
// JSON layout: {"id": "...", "name": "...", "class": "...", "grades": {"subject": score}}.
type Snapshot struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Class  string             `json:"class"`
	Grades map[string]float64 `json:"grades"`

	// decodeErr is set when the stored element was not a well-typed student.
	decodeErr error
}

// snapshotFields mirrors the JSON layout of Snapshot.
type snapshotFields struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Class  string             `json:"class"`
	Grades map[string]float64 `json:"grades"`
}

// UnmarshalJSON accepts any well-formed element. One that is not a student
// object, or has a wrongly typed field, keeps whatever fields could be read
// and fails Validate, so Restore rejects it alone.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*s = Snapshot{decodeErr: errors.New("not a student object")}
		return nil
	}

	var f snapshotFields
	err := json.Unmarshal(trimmed, &f)
	*s = Snapshot{ID: f.ID, Name: f.Name, Class: f.Class, Grades: f.Grades}
	if err != nil {
		s.decodeErr = describeDecodeError(err)
	}
	return nil
}

func describeDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Errorf("field %q holds a %s", typeErr.Field, typeErr.Value)
	}
	return fmt.Errorf("undecodable entry: %v", err)
}

// RecordFromSnapshot is the inverse of Record.Snapshot.
// Missing grades become an empty mapping. No validation happens here;
// Roster.Restore decides which snapshots are acceptable.
func RecordFromSnapshot(s Snapshot) *Record {
	return NewRecord(s.ID, s.Name, s.Class, s.Grades)
}

// Validate checks a snapshot against the record invariants.
func (s Snapshot) Validate() error {
	if s.decodeErr != nil {
		return s.decodeErr
	}
	if !IsValidID(s.ID) {
		return fmt.Errorf("invalid id %q", s.ID)
	}
	if isBlank(s.Name) {
		return fmt.Errorf("blank name")
	}
	for subject, score := range s.Grades {
		if !IsValidScore(score) {
			return fmt.Errorf("score %v for %q out of range", score, subject)
		}
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOAD REPORT
// ══════════════════════════════════════════════════════════════════════════════

// Rejection describes one stored entry Restore refused.
type Rejection struct {
	// Position is the zero-based index in the stored sequence.
	Position int

	// ID is the stored id, possibly malformed.
	ID string

	// Reason is a human-readable cause.
	Reason string
}

// LoadReport summarizes a Restore call.
type LoadReport struct {
	Loaded   int
	Rejected []Rejection
}

// Clean reports whether every stored entry was accepted.
func (r LoadReport) Clean() bool {
	return len(r.Rejected) == 0
}

// String renders the rejections on one line each.
func (r LoadReport) String() string {
	if r.Clean() {
		return fmt.Sprintf("%d loaded", r.Loaded)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d loaded, %d rejected", r.Loaded, len(r.Rejected))
	for _, rej := range r.Rejected {
		fmt.Fprintf(&sb, "\n  #%d %q: %s", rej.Position, rej.ID, rej.Reason)
	}
	return sb.String()
}
