package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgres(&config.Config{}, sqlx.NewDb(db, "sqlmock")), mock
}

func TestInsertOperation(t *testing.T) {
	repo, mock := newTestPostgres(t)

	mock.ExpectExec("INSERT INTO operations_journal").
		WithArgs("MERGE", int64(7), "AAPL", "10", "150.5", "rq-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.InsertOperation(context.Background(), model.Operation{
		Kind:       model.OperationMerge,
		PositionID: 7,
		Symbol:     "AAPL",
		Quantity:   decimal.NewFromInt(10),
		Price:      decimal.RequireFromString("150.5"),
		RequestID:  "rq-1",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOperations(t *testing.T) {
	repo, mock := newTestPostgres(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"operation_id", "kind", "position_id", "symbol", "quantity", "price", "rq_id", "dt_create"}).
		AddRow(int64(2), "CREATE", int64(3), "BTC", "0.5", "30000", "rq-2", now).
		AddRow(int64(1), "EDIT", int64(1), "AAPL", "1", "100", "rq-1", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM operations_journal").WithArgs(10).WillReturnRows(rows)

	operations, err := repo.GetOperations(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, operations, 2)

	assert.Equal(t, model.OperationCreate, operations[0].Kind)
	assert.True(t, operations[0].Quantity.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, now, operations[0].CreatedAt)
	assert.Equal(t, "AAPL", operations[1].Symbol)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSnapshot(t *testing.T) {
	repo, mock := newTestPostgres(t)
	date := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO valuation_snapshots").
		WithArgs(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "1200", "1000", "200", 3).
		WillReturnRows(sqlmock.NewRows([]string{"snapshot_id"}).AddRow(int64(5)))

	id, err := repo.InsertSnapshot(context.Background(), model.Snapshot{
		Date:           date,
		TotalValue:     decimal.NewFromInt(1200),
		TotalInvested:  decimal.NewFromInt(1000),
		ProfitLoss:     decimal.NewFromInt(200),
		PositionsCount: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSnapshot_AlreadyExists(t *testing.T) {
	repo, mock := newTestPostgres(t)

	mock.ExpectQuery("INSERT INTO valuation_snapshots").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.InsertSnapshot(context.Background(), model.Snapshot{Date: time.Now()})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestSnapshotExists(t *testing.T) {
	repo, mock := newTestPostgres(t)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.SnapshotExists(context.Background(), time.Now())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteSnapshot(t *testing.T) {
	repo, mock := newTestPostgres(t)
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM valuation_snapshots").
		WithArgs(day).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteSnapshot(context.Background(), day.Add(13*time.Hour))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotDay_NonUTCZone(t *testing.T) {
	repo, mock := newTestPostgres(t)
	msk := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2026, 10, 16, 1, 0, 0, 0, msk)
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM valuation_snapshots").
		WithArgs(day).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO valuation_snapshots").
		WithArgs(day, "1", "1", "0", 1).
		WillReturnRows(sqlmock.NewRows([]string{"snapshot_id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(day).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	require.NoError(t, repo.DeleteSnapshot(context.Background(), now))
	_, err := repo.InsertSnapshot(context.Background(), model.Snapshot{
		Date:           now,
		TotalValue:     decimal.NewFromInt(1),
		TotalInvested:  decimal.NewFromInt(1),
		ProfitLoss:     decimal.Zero,
		PositionsCount: 1,
	})
	require.NoError(t, err)
	exists, err := repo.SnapshotExists(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSnapshots(t *testing.T) {
	repo, mock := newTestPostgres(t)
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"snapshot_id", "snapshot_date", "total_value", "total_invested", "profit_loss", "positions_count", "dt_create"}).
		AddRow(int64(1), day, "100", "90", "10", 1, day).
		AddRow(int64(2), day.AddDate(0, 0, 1), "110", "90", "20", 1, day.AddDate(0, 0, 1))

	mock.ExpectQuery("FROM valuation_snapshots").WithArgs(day).WillReturnRows(rows)

	snapshots, err := repo.GetSnapshots(context.Background(), day.Add(5*time.Hour))
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[1].ProfitLoss.Equal(decimal.NewFromInt(20)))
}

func TestWithinTransaction(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		repo, mock := newTestPostgres(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO valuation_snapshots").WillReturnRows(sqlmock.NewRows([]string{"snapshot_id"}).AddRow(int64(1)))
		mock.ExpectCommit()

		err := repo.WithinTransaction(context.Background(), func(ctx context.Context) error {
			exists, err := repo.SnapshotExists(ctx, time.Now())
			if err != nil || exists {
				return err
			}
			_, err = repo.InsertSnapshot(ctx, model.Snapshot{Date: time.Now()})
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		repo, mock := newTestPostgres(t)
		errBoom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := repo.WithinTransaction(context.Background(), func(ctx context.Context) error {
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
