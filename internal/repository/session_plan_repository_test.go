package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPlanRepositoryDeleteBySession(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionPlanRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_plans WHERE session_id = $1")).
		WithArgs("session-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteBySession(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionPlanRepositoryDeleteBySessionCountError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSessionPlanRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_plans WHERE session_id = $1")).
		WithArgs("session-1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unsupported")))

	_, err := repo.DeleteBySession(context.Background(), "session-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count deleted session plans")
	require.NoError(t, mock.ExpectationsWereMet())
}
