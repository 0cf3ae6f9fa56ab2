package helpers

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/types"
)

type CreateOrderParams struct {
	BaseAsset  string              `json:"base_asset" form:"base_asset" validate:"required"`
	QuoteAsset string              `json:"quote_asset" form:"quote_asset" validate:"required"`
	Side       types.OrderSide     `json:"side" form:"side" validate:"required|VaildateSide"`
	Kind       types.OrderKind     `json:"kind" form:"kind" validate:"VaildateKind"`
	Amount     decimal.Decimal     `json:"amount" form:"amount" validate:"VaildateAmount"`
	Price      decimal.NullDecimal `json:"price" form:"price" validate:"VaildatePrice"`
}

func (p CreateOrderParams) Messages() map[string]string {
	invalid_message := "market.order.invalid_{field}"

	return validate.MS{
		"required":       invalid_message,
		"VaildateSide":   invalid_message,
		"VaildateKind":   invalid_message,
		"VaildateAmount": "market.order.invalid_amount",
		"VaildatePrice":  "market.order.missing_price",
	}
}

func (p CreateOrderParams) VaildateSide(val types.OrderSide) bool {
	return val == types.SideBuy || val == types.SideSell
}

func (p CreateOrderParams) VaildateKind(val types.OrderKind) bool {
	if len(val) == 0 {
		return true
	}

	return val == types.KindLimit || val == types.KindMarket
}

func (p CreateOrderParams) VaildateAmount(val decimal.Decimal) bool {
	return val.IsPositive()
}

func (p CreateOrderParams) VaildatePrice(val decimal.NullDecimal) bool {
	if p.Kind == types.KindMarket {
		return !val.Valid
	}

	return val.Valid && val.Decimal.IsPositive()
}

func (p CreateOrderParams) BuildOrder(member *models.Member) *models.Order {
	kind := p.Kind
	if len(kind) == 0 {
		kind = types.KindLimit
	}

	return &models.Order{
		MemberID:     member.ID,
		BaseAssetID:  p.BaseAsset,
		QuoteAssetID: p.QuoteAsset,
		Kind:         kind,
		Side:         p.Side,
		Amount:       p.Amount,
		Price:        p.Price,
	}
}
