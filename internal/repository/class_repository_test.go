package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newClassRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func classColumns() []string {
	return []string{"id", "weekday", "start_time", "title", "capacity", "created_at", "updated_at"}
}

func TestClassRepositoryListWithOccupancy(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(append(classColumns(), "occupancy", "is_full")).
		AddRow("class-1", "monday", "10:00:00", "HATHA YOGA", 6, now, now, 4, false).
		AddRow("class-2", "monday", "18:00:00", "ACROYOGA", 6, now, now, 6, true)
	mock.ExpectQuery(`SELECT c\.id, c\.weekday, c\.start_time, c\.title, c\.capacity, .+ FROM classes c\s+LEFT JOIN enrollments e ON e\.class_id = c\.id\s+GROUP BY c\.id`).
		WillReturnRows(rows)

	slots, err := repo.ListWithOccupancy(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	require.Equal(t, 4, slots[0].Occupancy)
	require.False(t, slots[0].IsFull)
	require.True(t, slots[1].IsFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryFindSlotByIDMissing(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(`SELECT c\.id, .+ WHERE c\.id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(append(classColumns(), "occupancy", "is_full")))

	_, err := repo.FindSlotByID(context.Background(), "ghost")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newClassRepoMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(classColumns()).
		AddRow("class-1", "tuesday", "17:00:00", "PILATES", 6, now, now)
	mock.ExpectQuery(`SELECT c\.id, .+ JOIN enrollments e ON e\.class_id = c\.id\s+WHERE e\.student_id = \$1`).
		WithArgs("stu-1").
		WillReturnRows(rows)

	classes, err := repo.ListByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, "PILATES", classes[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
