package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/types"
	"gorm.io/gorm"
)

// Order is a buy/sell intent against a (base, quote) asset pair. Open,
// partial and filled are never stored: Status derives them from
// FilledAmount so the stored state cannot drift from the fill history.
// Only the cancelled flag is persisted.
type Order struct {
	ID           int64               `json:"id" gorm:"primaryKey"`
	UUID         uuid.UUID           `json:"uuid" gorm:"default:gen_random_uuid()"`
	MemberID     int64               `json:"member_id" validate:"required"`
	BaseAssetID  string              `json:"base_asset_id" validate:"required"`
	QuoteAssetID string              `json:"quote_asset_id" validate:"required"`
	Kind         types.OrderKind     `json:"kind" validate:"ValidateKind"`
	Side         types.OrderSide     `json:"side" validate:"ValidateSide"`
	Amount       decimal.Decimal     `json:"amount" validate:"ValidateAmount"`
	Price        decimal.NullDecimal `json:"price" validate:"ValidatePrice"`
	FilledAmount decimal.Decimal     `json:"filled_amount" gorm:"default:0.0"`
	Cancelled    bool                `json:"cancelled" gorm:"default:false"`
	Locked       decimal.Decimal     `json:"locked" gorm:"default:0.0"`
	OriginLocked decimal.Decimal     `json:"origin_locked" gorm:"default:0.0"`
	FillsCount   int64               `json:"fills_count" gorm:"default:0"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (o Order) ValidateKind(Kind types.OrderKind) bool {
	return Kind == types.KindLimit || Kind == types.KindMarket
}

func (o Order) ValidateSide(Side types.OrderSide) bool {
	return Side == types.SideBuy || Side == types.SideSell
}

func (o Order) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

func (o Order) ValidatePrice(Price decimal.NullDecimal) bool {
	if o.Kind == types.KindMarket {
		return !Price.Valid
	}

	return Price.Valid && Price.Decimal.IsPositive()
}

// Status derives open/partial/filled/cancelled from the fill progress.
func (o *Order) Status() types.OrderStatus {
	switch {
	case o.Cancelled:
		return types.OrderCancelled
	case o.FilledAmount.GreaterThanOrEqual(o.Amount):
		return types.OrderFilled
	case o.FilledAmount.IsPositive():
		return types.OrderPartial
	default:
		return types.OrderOpen
	}
}

func (o *Order) IsTerminal() bool {
	status := o.Status()

	return status == types.OrderFilled || status == types.OrderCancelled
}

func (o *Order) RemainingAmount() decimal.Decimal {
	return o.Amount.Sub(o.FilledAmount)
}

// LockAssetID is the asset reserved while the order is open: the quote
// asset for buys, the base asset for sells.
func (o *Order) LockAssetID() string {
	if o.Side == types.SideBuy {
		return o.QuoteAssetID
	}

	return o.BaseAssetID
}

// IncomeAssetID is the asset the member receives when the order fills.
func (o *Order) IncomeAssetID() string {
	if o.Side == types.SideBuy {
		return o.BaseAssetID
	}

	return o.QuoteAssetID
}

// ComputeLocked is the amount of the lock asset reserved at placement.
// Limit orders lock against the limit price; market orders lock against
// the current cross price of the pair.
func (o *Order) ComputeLocked(base, quote *Asset) (decimal.Decimal, error) {
	if o.Side == types.SideSell {
		return o.Amount, nil
	}

	var price decimal.Decimal
	if o.Kind == types.KindLimit {
		price = o.Price.Decimal
	} else {
		if !quote.Price.IsPositive() {
			return decimal.Zero, ErrInvalidPair
		}
		price = base.Price.Div(quote.Price)
	}

	return o.Amount.Mul(price), nil
}

func (o *Order) Member() *Member {
	var member *Member

	config.DataBase.First(&member, o.MemberID)

	return member
}

func (o *Order) AfterSave(tx *gorm.DB) (err error) {
	o.TriggerEvent()

	return nil
}

func (o *Order) TriggerEvent() {
	if config.Nats == nil {
		return
	}

	payload, _ := json.Marshal(o.ToJSON())
	config.Nats.Publish("vaultex.orders."+o.Member().UID, payload)
}

type OrderJSON struct {
	UUID         uuid.UUID           `json:"uuid"`
	BaseAsset    string              `json:"base_asset"`
	QuoteAsset   string              `json:"quote_asset"`
	Kind         types.OrderKind     `json:"kind"`
	Side         types.OrderSide     `json:"side"`
	Amount       decimal.Decimal     `json:"amount"`
	Price        decimal.NullDecimal `json:"price"`
	FilledAmount decimal.Decimal     `json:"filled_amount"`
	Status       types.OrderStatus   `json:"status"`
	FillsCount   int64               `json:"fills_count"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (o *Order) ToJSON() OrderJSON {
	return OrderJSON{
		UUID:         o.UUID,
		BaseAsset:    o.BaseAssetID,
		QuoteAsset:   o.QuoteAssetID,
		Kind:         o.Kind,
		Side:         o.Side,
		Amount:       o.Amount,
		Price:        o.Price,
		FilledAmount: o.FilledAmount,
		Status:       o.Status(),
		FillsCount:   o.FillsCount,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
