package workers

import (
	"github.com/shopspring/decimal"
)

// FillsSubject carries executions from the matcher (or the admin
// simulation endpoint) to the engine worker.
const FillsSubject = "vaultex.fills"

type FillPayload struct {
	OrderID int64           `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Price   decimal.Decimal `json:"price"`
}
