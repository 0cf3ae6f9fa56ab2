package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/types"
)

func TestCreateOrderParams_LimitRequiresPrice(t *testing.T) {
	params := CreateOrderParams{
		BaseAsset:  "btc",
		QuoteAsset: "usdt",
		Side:       types.SideBuy,
		Kind:       types.KindLimit,
		Amount:     decimal.NewFromInt(1),
	}

	errs := new(Errors)
	Vaildate(params, errs)

	assert.Contains(t, errs.Errors, "market.order.missing_price")
}

func TestCreateOrderParams_MarketRefusesPrice(t *testing.T) {
	params := CreateOrderParams{
		BaseAsset:  "btc",
		QuoteAsset: "usdt",
		Side:       types.SideSell,
		Kind:       types.KindMarket,
		Amount:     decimal.NewFromInt(1),
		Price:      decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}

	errs := new(Errors)
	Vaildate(params, errs)

	assert.Contains(t, errs.Errors, "market.order.missing_price")
}

func TestCreateOrderParams_InvalidSide(t *testing.T) {
	params := CreateOrderParams{
		BaseAsset:  "btc",
		QuoteAsset: "usdt",
		Side:       "hold",
		Kind:       types.KindMarket,
		Amount:     decimal.NewFromInt(1),
	}

	errs := new(Errors)
	Vaildate(params, errs)

	assert.NotZero(t, errs.Size())
}

func TestCreateOrderParams_NonPositiveAmount(t *testing.T) {
	params := CreateOrderParams{
		BaseAsset:  "btc",
		QuoteAsset: "usdt",
		Side:       types.SideBuy,
		Kind:       types.KindLimit,
		Amount:     decimal.Zero,
		Price:      decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}

	errs := new(Errors)
	Vaildate(params, errs)

	assert.Contains(t, errs.Errors, "market.order.invalid_amount")
}

func TestCreateOrderParams_BuildOrderDefaultsToLimit(t *testing.T) {
	params := CreateOrderParams{
		BaseAsset:  "btc",
		QuoteAsset: "usdt",
		Side:       types.SideBuy,
		Amount:     decimal.NewFromInt(1),
		Price:      decimal.NewNullDecimal(decimal.NewFromInt(100)),
	}

	order := params.BuildOrder(&models.Member{ID: 42})

	assert.Equal(t, types.KindLimit, order.Kind)
	assert.Equal(t, int64(42), order.MemberID)
	assert.Equal(t, "btc", order.BaseAssetID)
	assert.Equal(t, "usdt", order.QuoteAssetID)
}

func TestCreateTransactionParams_Validation(t *testing.T) {
	params := CreateTransactionParams{
		Asset:  "btc",
		Amount: decimal.NewFromInt(-1),
	}

	errs := new(Errors)
	Vaildate(params, errs)

	assert.Contains(t, errs.Errors, "wallet.transaction.invalid_amount")
}
