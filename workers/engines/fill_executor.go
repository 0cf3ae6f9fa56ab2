package engines

import (
	"encoding/json"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/trading"
	"github.com/zsmartex/vaultex/workers"
)

// FillExecutorWorker drains the fills subject and settles each
// execution. Failed fills are logged and dropped; the caller decides
// whether to republish.
type FillExecutorWorker struct {
	settlement *trading.Settlement
}

func NewFillExecutorWorker(settlement *trading.Settlement) *FillExecutorWorker {
	return &FillExecutorWorker{
		settlement: settlement,
	}
}

func (w *FillExecutorWorker) Process(payload []byte) error {
	var fill workers.FillPayload

	if err := json.Unmarshal(payload, &fill); err != nil {
		return err
	}

	order, err := w.settlement.Fill(fill.OrderID, fill.Amount, fill.Price)
	if err != nil {
		config.Logger.Errorf("Failed to settle fill for order %d: %v", fill.OrderID, err)
		return err
	}

	config.Logger.Infof("Settled fill: order %d, %s @ %s, status %s", order.ID, fill.Amount.String(), fill.Price.String(), order.Status())

	return nil
}
