package student

import (
	"fmt"
	"slices"
	"sort"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER
// ══════════════════════════════════════════════════════════════════════════════

// Roster is the ordered collection of all records, unique by id.
// Insertion order is kept; only TopStudents returns a sorted view.
// A Roster is not safe for concurrent use.
type Roster struct {
	records []*Record
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{records: make([]*Record, 0)}
}

// Patch lists the fields UpdateStudent may change. nil means "don't change".
type Patch struct {
	Name  *string
	Class *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Class == nil
}

// AddStudent appends record. Fails on nil, a duplicate id or a blank name.
func (r *Roster) AddStudent(record *Record) bool {
	if record == nil {
		return false
	}
	if r.indexOf(record.ID()) >= 0 {
		return false
	}
	if isBlank(record.Name()) {
		return false
	}

	r.records = append(r.records, record)
	return true
}

// RemoveStudent deletes the record with id, keeping the order of the rest.
func (r *Roster) RemoveStudent(id string) bool {
	idx := r.indexOf(id)
	if idx < 0 {
		return false
	}

	r.records = slices.Delete(r.records, idx, idx+1)
	return true
}

// FindStudent returns the record with exactly this id.
func (r *Roster) FindStudent(id string) (*Record, bool) {
	idx := r.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return r.records[idx], true
}

// UpdateStudent applies patch to the record with id. The id never changes.
// Fails when id is unknown or patch.Name is given but blank; in that case
// nothing is applied, including a Class change in the same patch.
func (r *Roster) UpdateStudent(id string, patch Patch) bool {
	record, ok := r.FindStudent(id)
	if !ok {
		return false
	}
	if patch.Name != nil && isBlank(*patch.Name) {
		return false
	}

	if patch.Name != nil {
		record.rename(*patch.Name)
	}
	if patch.Class != nil {
		record.moveClass(*patch.Class)
	}
	return true
}

// AllStudents returns the records in insertion order.
// The slice is a copy; reordering it does not affect the roster.
func (r *Roster) AllStudents() []*Record {
	out := make([]*Record, len(r.records))
	copy(out, r.records)
	return out
}

// TopStudents returns up to n records by descending average.
// Equal averages keep insertion order.
func (r *Roster) TopStudents(n int) []*Record {
	if n <= 0 || len(r.records) == 0 {
		return []*Record{}
	}

	sorted := r.AllStudents()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Average() > sorted[j].Average()
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// StudentsByClass returns the records whose class equals className,
// ignoring case, in insertion order.
func (r *Roster) StudentsByClass(className string) []*Record {
	out := make([]*Record, 0)
	for _, record := range r.records {
		if record.inClass(className) {
			out = append(out, record)
		}
	}
	return out
}

// ClassStatistics aggregates the records of className.
// Returns false when the class has no students.
func (r *Roster) ClassStatistics(className string) (ClassStatistics, bool) {
	members := r.StudentsByClass(className)
	if len(members) == 0 {
		return ClassStatistics{}, false
	}
	return computeClassStatistics(className, members), true
}

// StudentCount returns the number of records.
func (r *Roster) StudentCount() int {
	return len(r.records)
}

// Snapshot returns the plain-data form of every record, in order.
func (r *Roster) Snapshot() []Snapshot {
	out := make([]Snapshot, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record.Snapshot())
	}
	return out
}

// Restore replaces the whole collection with snapshots.
// Entries breaking a record invariant (id format, blank name, score range)
// or repeating an earlier id are skipped and listed in the report.
func (r *Roster) Restore(snapshots []Snapshot) LoadReport {
	records := make([]*Record, 0, len(snapshots))
	seen := make(map[string]int, len(snapshots))
	report := LoadReport{}

	for pos, snap := range snapshots {
		if err := snap.Validate(); err != nil {
			report.Rejected = append(report.Rejected, Rejection{
				Position: pos,
				ID:       snap.ID,
				Reason:   err.Error(),
			})
			continue
		}
		if first, dup := seen[snap.ID]; dup {
			report.Rejected = append(report.Rejected, Rejection{
				Position: pos,
				ID:       snap.ID,
				Reason:   fmt.Sprintf("duplicate of entry #%d", first),
			})
			continue
		}

		seen[snap.ID] = pos
		records = append(records, RecordFromSnapshot(snap))
	}

	r.records = records
	report.Loaded = len(records)
	return report
}

func (r *Roster) indexOf(id string) int {
	for i, record := range r.records {
		if record.ID() == id {
			return i
		}
	}
	return -1
}
