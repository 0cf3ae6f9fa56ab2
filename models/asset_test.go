package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAdjustedPrice(t *testing.T) {
	price := decimal.NewFromInt(200)

	up := AdjustedPrice(price, decimal.NewFromInt(10))
	assert.True(t, up.Equal(decimal.NewFromInt(220)))

	down := AdjustedPrice(price, decimal.NewFromInt(-50))
	assert.True(t, down.Equal(decimal.NewFromInt(100)))

	flat := AdjustedPrice(price, decimal.Zero)
	assert.True(t, flat.Equal(price))
}

func TestAsset_SetPriceRejectsNegative(t *testing.T) {
	asset := &Asset{Price: decimal.NewFromInt(10)}

	err := asset.SetPrice(nil, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.True(t, asset.Price.Equal(decimal.NewFromInt(10)))
}

func TestAsset_ValidatePrice(t *testing.T) {
	asset := Asset{}

	assert.True(t, asset.ValidatePrice(decimal.Zero))
	assert.True(t, asset.ValidatePrice(decimal.NewFromInt(3)))
	assert.False(t, asset.ValidatePrice(decimal.NewFromInt(-3)))
}
