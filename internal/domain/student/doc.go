// Package student holds the gradebook domain model.
//
// Two types carry all behavior:
//
//   - Record: one student, its private subject -> score mapping, the derived
//     average and pass status ("Lulus" at or above 75, otherwise "Tidak Lulus").
//   - Roster: the insertion-ordered collection of records, unique by id, with
//     CRUD, ranking, class filtering and class statistics.
//
// Mutating operations return a bool, as in:
//
//	roster := NewRoster()
//	if !roster.AddStudent(NewRecord("S001", "Budi", "XII-A", nil)) {
//	    // duplicate id or blank name
//	}
//	rec, _ := roster.FindStudent("S001")
//	rec.AddGrade("Matematika", 88)
//
// Persistence goes through the Store interface and the Snapshot type.
// Roster.Restore is the only way to bulk-load; it drops entries that break a
// record invariant, or that did not decode as a student, and reports them in
// a LoadReport.
//
// The package depends on the standard library only.
package student
