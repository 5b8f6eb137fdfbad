package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

// InsertSnapshot returns repository.ErrAlreadyExists when the day already has a snapshot.
func (r *Postgres) InsertSnapshot(ctx context.Context, snapshot model.Snapshot) (snapshotID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertSnapshot"
	query := `
		INSERT INTO valuation_snapshots(snapshot_date, total_value, total_invested, profit_loss, positions_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING snapshot_id
	`

	slog.Debug("InsertSnapshot start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("snapshot", snapshot), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertSnapshot failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertSnapshot completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	err = r.txOrDb(ctx).QueryRowxContext(
		ctx,
		query,
		truncateToDay(snapshot.Date),
		snapshot.TotalValue,
		snapshot.TotalInvested,
		snapshot.ProfitLoss,
		snapshot.PositionsCount,
	).Scan(&snapshotID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return 0, repository.ErrAlreadyExists
			}
		}
		return 0, err
	}

	return snapshotID, nil
}

func (r *Postgres) SnapshotExists(ctx context.Context, date time.Time) (exists bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.SnapshotExists"
	query := `SELECT EXISTS(SELECT 1 FROM valuation_snapshots WHERE snapshot_date = $1)`

	slog.Debug("SnapshotExists start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Time("date", date))
	defer func() {
		if err != nil {
			slog.Error("SnapshotExists failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("SnapshotExists completed", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("exists", exists))
		}
	}()

	err = r.txOrDb(ctx).GetContext(ctx, &exists, query, truncateToDay(date))
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Postgres) DeleteSnapshot(ctx context.Context, date time.Time) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteSnapshot"
	query := `DELETE FROM valuation_snapshots WHERE snapshot_date = $1`

	slog.Debug("DeleteSnapshot start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Time("date", date))
	defer func() {
		if err != nil {
			slog.Error("DeleteSnapshot failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteSnapshot completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, truncateToDay(date))
	return err
}

// GetSnapshots returns snapshots starting from the given day, oldest first.
func (r *Postgres) GetSnapshots(ctx context.Context, from time.Time) (snapshots []model.Snapshot, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetSnapshots"
	query := `
		SELECT snapshot_id, snapshot_date, total_value, total_invested, profit_loss, positions_count, dt_create
		FROM valuation_snapshots
		WHERE snapshot_date >= $1
		ORDER BY snapshot_date
		`

	slog.Debug("GetSnapshots start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Time("from", from))
	defer func() {
		if err != nil {
			slog.Error("GetSnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetSnapshots completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	var dbSnapshots []dbModel.Snapshot
	err = r.txOrDb(ctx).SelectContext(ctx, &dbSnapshots, query, truncateToDay(from))
	if err != nil {
		return nil, err
	}

	snapshots = make([]model.Snapshot, 0, len(dbSnapshots))
	for _, s := range dbSnapshots {
		snapshots = append(snapshots, dbConverter.ConvertSnapshot(s))
	}

	return snapshots, nil
}

// truncateToDay picks the day in UTC, the same way the service does.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
