package command

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
)

func TestAddStudent(t *testing.T) {
	h, sess, store := newTestHandlers(t)
	ctx := context.Background()

	res, err := h.AddStudent.Handle(ctx, AddStudentCommand{ID: "S001", Name: "Ani", Class: "XII-A"})
	require.NoError(t, err)
	assert.Equal(t, "S001", res.Record.ID())
	assert.Empty(t, res.Record.Grades())
	assert.Equal(t, 1, sess.Roster().StudentCount())
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "Ani", store.snapshots[0].Name)
}

func TestAddStudent_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		cmd     AddStudentCommand
		wantErr error
	}{
		{"duplicate id", AddStudentCommand{ID: "S001", Name: "Other"}, shared.ErrStudentAlreadyExists},
		{"bad id", AddStudentCommand{ID: "S01", Name: "Budi"}, shared.ErrInvalidStudentID},
		{"empty id", AddStudentCommand{ID: "", Name: "Budi"}, shared.ErrInvalidStudentID},
		{"blank name", AddStudentCommand{ID: "S002", Name: "  "}, shared.ErrBlankName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sess, store := newTestHandlers(t, ani())

			_, err := h.AddStudent.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, sess.Roster().StudentCount())
			assert.Zero(t, store.saves, "a failed command must not write")
		})
	}
}

func TestAddStudent_PersistFailure(t *testing.T) {
	h, _, store := newTestHandlers(t)
	store.saveErr = errDisk

	_, err := h.AddStudent.Handle(context.Background(), AddStudentCommand{ID: "S001", Name: "Ani"})
	assert.ErrorIs(t, err, errDisk)
}

func TestUpdateStudent(t *testing.T) {
	h, _, store := newTestHandlers(t, ani())

	res, err := h.UpdateStudent.Handle(context.Background(), UpdateStudentCommand{ID: "S001", Class: strPtr("XII-C")})
	require.NoError(t, err)
	assert.Equal(t, "Ani", res.Record.Name())
	assert.Equal(t, "XII-C", res.Record.Class())
	assert.Equal(t, []string{"class"}, res.ChangedFields)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "XII-C", store.snapshots[0].Class)
}

func TestUpdateStudent_BothFields(t *testing.T) {
	h, _, _ := newTestHandlers(t, ani())

	res, err := h.UpdateStudent.Handle(context.Background(), UpdateStudentCommand{
		ID:    "S001",
		Name:  strPtr("Ani Lestari"),
		Class: strPtr("XII-A"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ani Lestari", res.Record.Name())
	assert.Equal(t, []string{"name"}, res.ChangedFields)
}

func TestUpdateStudent_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		cmd     UpdateStudentCommand
		wantErr error
	}{
		{"unknown id", UpdateStudentCommand{ID: "S404", Name: strPtr("X")}, shared.ErrStudentNotFound},
		{"empty patch", UpdateStudentCommand{ID: "S001"}, shared.ErrNothingToUpdate},
		{"blank name", UpdateStudentCommand{ID: "S001", Name: strPtr(" "), Class: strPtr("XII-B")}, shared.ErrBlankName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sess, store := newTestHandlers(t, ani())

			_, err := h.UpdateStudent.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)

			record, ok := sess.Roster().FindStudent("S001")
			require.True(t, ok)
			assert.Equal(t, "Ani", record.Name())
			assert.Equal(t, "XII-A", record.Class())
			assert.Zero(t, store.saves)
		})
	}
}

func TestRemoveStudent(t *testing.T) {
	h, sess, store := newTestHandlers(t, ani(), student.Snapshot{ID: "S002", Name: "Budi"})

	res, err := h.RemoveStudent.Handle(context.Background(), RemoveStudentCommand{ID: "S001"})
	require.NoError(t, err)
	assert.Equal(t, "Ani", res.Name)
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, 1, store.saves)

	_, ok := sess.Roster().FindStudent("S001")
	assert.False(t, ok)

	_, err = h.RemoveStudent.Handle(context.Background(), RemoveStudentCommand{ID: "S001"})
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
	assert.Equal(t, 1, store.saves)
}

func TestAddGrade(t *testing.T) {
	h, _, store := newTestHandlers(t, ani())
	ctx := context.Background()

	res, err := h.AddGrade.Handle(ctx, AddGradeCommand{StudentID: "S001", Subject: "Fisika", Score: 70})
	require.NoError(t, err)
	assert.False(t, res.Replaced)
	assert.InDelta(t, 75.0, res.Average, 1e-9)
	assert.Equal(t, student.StatusPassed, res.Status)

	res, err = h.AddGrade.Handle(ctx, AddGradeCommand{StudentID: "S001", Subject: "Fisika", Score: 60})
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.Equal(t, 70.0, res.PreviousScore)
	assert.InDelta(t, 70.0, res.Average, 1e-9)
	assert.Equal(t, student.StatusFailed, res.Status)

	assert.Equal(t, 2, store.saves)
	assert.Equal(t, 60.0, store.snapshots[0].Grades["Fisika"])
}

func TestAddGrade_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		cmd     AddGradeCommand
		wantErr error
	}{
		{"unknown student", AddGradeCommand{StudentID: "S404", Subject: "Fisika", Score: 50}, shared.ErrStudentNotFound},
		{"score above range", AddGradeCommand{StudentID: "S001", Subject: "Fisika", Score: 101}, shared.ErrScoreOutOfRange},
		{"score below range", AddGradeCommand{StudentID: "S001", Subject: "Fisika", Score: -1}, shared.ErrScoreOutOfRange},
		{"NaN", AddGradeCommand{StudentID: "S001", Subject: "Fisika", Score: math.NaN()}, shared.ErrScoreOutOfRange},
		{"blank subject", AddGradeCommand{StudentID: "S001", Subject: "", Score: 50}, shared.ErrBlankSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sess, store := newTestHandlers(t, ani())

			_, err := h.AddGrade.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)

			record, _ := sess.Roster().FindStudent("S001")
			assert.Equal(t, map[string]float64{"Matematika": 80}, record.Grades())
			assert.Zero(t, store.saves)
		})
	}
}

func TestCommands_CanceledContextChangesNothing(t *testing.T) {
	h, sess, store := newTestHandlers(t, ani())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.AddStudent.Handle(ctx, AddStudentCommand{ID: "S002", Name: "Budi", Class: "XII-A"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.UpdateStudent.Handle(ctx, UpdateStudentCommand{ID: "S001", Name: strPtr("Ana")})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.RemoveStudent.Handle(ctx, RemoveStudentCommand{ID: "S001"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.AddGrade.Handle(ctx, AddGradeCommand{StudentID: "S001", Subject: "Fisika", Score: 90})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 0, store.saves)
	assert.Equal(t, []student.Snapshot{ani()}, sess.Roster().Snapshot())
}
