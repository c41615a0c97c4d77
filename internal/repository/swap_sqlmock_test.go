package repository

import (
	"context"
	"testing"

	"skillswap/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pins the SQL shape of the status transition: a single conditional UPDATE
// keyed on both id and the pending status, so two concurrent decisions
// cannot both apply.
func TestSwapRepositoryTransitionSQLShape(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := NewSwapRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "swap_requests" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND status = \$4`).
		WithArgs(string(models.SwapStatusAccepted), sqlmock.AnyArg(), 5, string(models.SwapStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.TransitionFromPending(context.Background(), 5, models.SwapStatusAccepted))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapRepositoryTransitionSQLShapeZeroRows(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := NewSwapRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "swap_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = repo.TransitionFromPending(context.Background(), 5, models.SwapStatusAccepted)
	require.Error(t, err)

	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
