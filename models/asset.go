package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/types"
	"gorm.io/gorm"
)

type Asset struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	Symbol         string          `json:"symbol" gorm:"uniqueIndex" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Price          decimal.Decimal `json:"price" gorm:"default:0.0" validate:"ValidatePrice"`
	PriceChange24h decimal.Decimal `json:"price_change_24h" gorm:"default:0.0"`
	MarketCap      decimal.Decimal `json:"market_cap" gorm:"default:0.0"`
	Volume24h      decimal.Decimal `json:"volume_24h" gorm:"default:0.0"`
	Supply         decimal.Decimal `json:"supply" gorm:"default:0.0"`
	PriceFeed      types.PriceFeed `json:"price_feed" gorm:"default:market"`
	Active         bool            `json:"active" gorm:"default:true"`
	Position       int32           `json:"position" gorm:"default:0"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (a Asset) ValidatePrice(Price decimal.Decimal) bool {
	return Price.GreaterThanOrEqual(decimal.Zero)
}

func FindAsset(id string) (*Asset, error) {
	var asset *Asset

	result := config.DataBase.First(&asset, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	return asset, nil
}

// AdjustedPrice applies a percentage delta to a price.
func AdjustedPrice(old decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)

	return old.Mul(hundred.Add(pct)).Div(hundred)
}

// SetPrice reprices the asset inside the given transaction. Prices never
// go negative regardless of the delta the caller computed.
func (a *Asset) SetPrice(tx *gorm.DB, price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidAmount
	}

	a.Price = price
	a.MarketCap = price.Mul(a.Supply)

	return tx.Save(a).Error
}

func (a *Asset) ToJSON() AssetJSON {
	return AssetJSON{
		ID:             a.ID,
		Symbol:         a.Symbol,
		Name:           a.Name,
		Price:          a.Price,
		PriceChange24h: a.PriceChange24h,
		MarketCap:      a.MarketCap,
		Volume24h:      a.Volume24h,
		Active:         a.Active,
	}
}

type AssetJSON struct {
	ID             string          `json:"id"`
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	PriceChange24h decimal.Decimal `json:"price_change_24h"`
	MarketCap      decimal.Decimal `json:"market_cap"`
	Volume24h      decimal.Decimal `json:"volume_24h"`
	Active         bool            `json:"active"`
}
