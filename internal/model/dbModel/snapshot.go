package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Snapshot struct {
	SnapshotID     int64           `db:"snapshot_id"`
	SnapshotDate   time.Time       `db:"snapshot_date"`
	TotalValue     decimal.Decimal `db:"total_value"`
	TotalInvested  decimal.Decimal `db:"total_invested"`
	ProfitLoss     decimal.Decimal `db:"profit_loss"`
	PositionsCount int             `db:"positions_count"`
	DtCreate       time.Time       `db:"dt_create"`
}
