package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/types"
)

// Fill is one execution against an order.
type Fill struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	OrderID      int64           `json:"order_id"`
	MemberID     int64           `json:"member_id"`
	BaseAssetID  string          `json:"base_asset_id"`
	QuoteAssetID string          `json:"quote_asset_id"`
	Side         types.OrderSide `json:"side"`
	Amount       decimal.Decimal `json:"amount" validate:"ValidateAmount"`
	Price        decimal.Decimal `json:"price" validate:"ValidatePrice"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (f Fill) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

func (f Fill) ValidatePrice(Price decimal.Decimal) bool {
	return Price.IsPositive()
}

func (f *Fill) WriteToInflux() {
	if config.InfluxDB == nil {
		return
	}

	price, _ := f.Price.Float64()
	amount, _ := f.Amount.Float64()
	total, _ := f.Total.Float64()

	tags := map[string]string{"pair": f.BaseAssetID + "/" + f.QuoteAssetID}
	fields := map[string]interface{}{
		"id":         f.ID,
		"price":      price,
		"amount":     amount,
		"total":      total,
		"side":       f.Side,
		"created_at": f.CreatedAt,
	}

	config.InfluxDB.NewPoint("fills", tags, fields)
}

// Volume24h sums executed base amounts for a pair over the trailing day.
func Volume24h(baseAssetID string) decimal.Decimal {
	var volume decimal.NullDecimal

	config.DataBase.Model(&Fill{}).
		Select("sum(amount)").
		Where("base_asset_id = ? AND created_at >= ?", baseAssetID, time.Now().Add(-24*time.Hour)).
		Scan(&volume)

	return volume.Decimal
}

type FillJSON struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	BaseAsset  string          `json:"base_asset"`
	QuoteAsset string          `json:"quote_asset"`
	Side       types.OrderSide `json:"side"`
	Amount     decimal.Decimal `json:"amount"`
	Price      decimal.Decimal `json:"price"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (f *Fill) ToJSON() FillJSON {
	return FillJSON{
		ID:         f.ID,
		OrderID:    f.OrderID,
		BaseAsset:  f.BaseAssetID,
		QuoteAsset: f.QuoteAssetID,
		Side:       f.Side,
		Amount:     f.Amount,
		Price:      f.Price,
		Total:      f.Total,
		CreatedAt:  f.CreatedAt,
	}
}
