package postgres

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/portfolio_tracker/internal/converter/dbConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/dbModel"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

func (r *Postgres) InsertOperation(ctx context.Context, operation model.Operation) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertOperation"
	query := `
		INSERT INTO operations_journal(kind, position_id, symbol, quantity, price, rq_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	slog.Debug(
		"InsertOperation start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Any("operation", operation),
		slog.String("query", query),
	)
	defer func() {
		if err != nil {
			slog.Error("InsertOperation failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertOperation completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(
		ctx,
		query,
		string(operation.Kind),
		operation.PositionID,
		operation.Symbol,
		operation.Quantity,
		operation.Price,
		operation.RequestID,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetOperations returns the latest operations, newest first.
func (r *Postgres) GetOperations(ctx context.Context, limit int) (operations []model.Operation, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetOperations"
	query := `
		SELECT operation_id, kind, position_id, symbol, quantity, price, rq_id, dt_create
		FROM operations_journal
		ORDER BY dt_create DESC, operation_id DESC
		LIMIT $1
		`

	slog.Debug("GetOperations start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query), slog.Int("limit", limit))
	defer func() {
		if err != nil {
			slog.Error("GetOperations failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetOperations completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	operations = make([]model.Operation, 0, limit)
	for rows.Next() {
		var operation dbModel.Operation
		err = rows.StructScan(&operation)
		if err != nil {
			return nil, err
		}
		operations = append(operations, dbConverter.ConvertOperation(operation))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return operations, nil
}
