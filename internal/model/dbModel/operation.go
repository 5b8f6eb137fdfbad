package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Operation struct {
	OperationID int64           `db:"operation_id"`
	Kind        string          `db:"kind"`
	PositionID  int64           `db:"position_id"`
	Symbol      string          `db:"symbol"`
	Quantity    decimal.Decimal `db:"quantity"`
	Price       decimal.Decimal `db:"price"`
	RqID        string          `db:"rq_id"`
	DtCreate    time.Time       `db:"dt_create"`
}
