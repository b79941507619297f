package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func entryRows(entries ...models.TimetableEntry) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "school_id", "class_id", "section_id", "subject_id", "teacher_id", "day", "period", "start_time", "end_time", "created_at", "updated_at"})
	for _, e := range entries {
		rows.AddRow(e.ID, e.SchoolID, e.ClassID, e.SectionID, e.SubjectID, e.TeacherID, e.Day, e.Period, e.StartTime, e.EndTime, time.Now(), time.Now())
	}
	return rows
}

func TestTimetableEntryRepositoryFindSlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableEntryRepository(db)
	occupant := models.TimetableEntry{
		ID: "entry-1", SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1",
		SubjectID: "subject-1", TeacherID: "teacher-1", Day: "MONDAY", Period: 3,
		StartTime: "09:30", EndTime: "10:15",
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, school_id, class_id, section_id, subject_id, teacher_id, day, period, start_time, end_time, created_at, updated_at FROM timetable_entries WHERE school_id = $1 AND class_id = $2 AND section_id = $3 AND day = $4 AND period = $5")).
		WithArgs("school-1", "class-1", "section-1", "MONDAY", 3).
		WillReturnRows(entryRows(occupant))

	found, err := repo.FindSlot(context.Background(), nil, "school-1", "class-1", "section-1", "MONDAY", 3)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "entry-1", found.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryFindSlotEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableEntryRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_entries WHERE school_id = $1")).
		WithArgs("school-1", "class-1", "section-1", "MONDAY", 3).
		WillReturnRows(entryRows())

	found, err := repo.FindSlot(context.Background(), nil, "school-1", "class-1", "section-1", "MONDAY", 3)
	require.NoError(t, err)
	assert.Nil(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryCreateWithTxUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableEntryRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "timetable_entries_slot_key"})
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	err = repo.CreateWithTx(context.Background(), tx, &models.TimetableEntry{
		SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1",
		SubjectID: "subject-1", TeacherID: "teacher-1", Day: "MONDAY", Period: 3,
		StartTime: "09:30", EndTime: "10:15",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSlotOccupied))
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryCreateWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableEntryRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	entry := &models.TimetableEntry{
		SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1",
		SubjectID: "subject-1", TeacherID: "teacher-1", Day: "MONDAY", Period: 3,
		StartTime: "09:30", EndTime: "10:15",
	}
	require.NoError(t, repo.CreateWithTx(context.Background(), tx, entry))
	assert.NotEmpty(t, entry.ID)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryListBySectionCanonicalOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableEntryRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY CASE day WHEN 'MONDAY' THEN 1")).
		WithArgs("school-1", "class-1", "section-1").
		WillReturnRows(entryRows(
			models.TimetableEntry{ID: "entry-1", Day: "MONDAY", Period: 1},
			models.TimetableEntry{ID: "entry-2", Day: "MONDAY", Period: 2},
		))

	entries, err := repo.ListBySection(context.Background(), "school-1", "class-1", "section-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-1", entries[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableEntryRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableEntryRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE id = $1")).
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "entry-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
