package student

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_UnmarshalKeepsGoodEntries(t *testing.T) {
	data := []byte(`[
		{"id": "S001", "name": "Ani", "class": "XII-A", "grades": {"Fisika": 90}},
		{"id": "S002", "name": "Budi", "class": "XII-A", "grades": {"Fisika": "90"}},
		{"id": 3, "name": "Cici", "class": "XII-B", "grades": {}},
		42,
		null,
		{"id": "S005", "name": "Eka", "class": "XII-B"}
	]`)

	var snapshots []Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshots))
	require.Len(t, snapshots, 6)

	roster := NewRoster()
	report := roster.Restore(snapshots)

	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, []int{1, 2, 3, 4}, rejectedPositions(report))
	assert.Equal(t, "S002", report.Rejected[0].ID)
	assert.Contains(t, report.Rejected[0].Reason, "grades")
	assert.Contains(t, report.Rejected[1].Reason, "id")
	assert.Equal(t, "not a student object", report.Rejected[2].Reason)
	assert.Equal(t, "not a student object", report.Rejected[3].Reason)

	assert.Equal(t, []string{"S001", "S005"}, recordIDs(roster.AllStudents()))
	rec, _ := roster.FindStudent("S001")
	assert.Equal(t, 90.0, rec.Grades()["Fisika"])
}

func TestSnapshot_UnmarshalWellTyped(t *testing.T) {
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"id":"S001","name":"Ani","class":"X","grades":{"Kimia":80}}`), &snap))

	assert.NoError(t, snap.Validate())
	assert.Equal(t, Snapshot{ID: "S001", Name: "Ani", Class: "X", Grades: map[string]float64{"Kimia": 80}}, snap)
}

func TestSnapshot_MarshalSkipsDecodeState(t *testing.T) {
	data, err := json.Marshal(Snapshot{ID: "S001", Name: "Ani", Class: "X", Grades: map[string]float64{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"S001","name":"Ani","class":"X","grades":{}}`, string(data))
}
