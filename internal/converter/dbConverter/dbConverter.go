package dbConverter

import (
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/dbModel"
)

func ConvertOperation(dbOperation dbModel.Operation) model.Operation {
	return model.Operation{
		ID:         dbOperation.OperationID,
		Kind:       model.OperationKind(dbOperation.Kind),
		PositionID: dbOperation.PositionID,
		Symbol:     dbOperation.Symbol,
		Quantity:   dbOperation.Quantity,
		Price:      dbOperation.Price,
		RequestID:  dbOperation.RqID,
		CreatedAt:  dbOperation.DtCreate,
	}
}

func ConvertSnapshot(dbSnapshot dbModel.Snapshot) model.Snapshot {
	return model.Snapshot{
		ID:             dbSnapshot.SnapshotID,
		Date:           dbSnapshot.SnapshotDate,
		TotalValue:     dbSnapshot.TotalValue,
		TotalInvested:  dbSnapshot.TotalInvested,
		ProfitLoss:     dbSnapshot.ProfitLoss,
		PositionsCount: dbSnapshot.PositionsCount,
		CreatedAt:      dbSnapshot.DtCreate,
	}
}
