package models

import (
	"database/sql"
	"errors"
	"time"

	"github.com/zsmartex/vaultex/config"
	"gorm.io/gorm"
)

const RoleLiquidity = "liquidity"

type Member struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	UID       string         `json:"uid"`
	Email     string         `json:"email"`
	Level     int32          `json:"level" gorm:"default:0" validate:"min:0"`
	Role      string         `json:"role"`
	State     string         `json:"state"`
	Username  sql.NullString `json:"username"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (m *Member) GetBalance(asset *Asset) *Balance {
	var balance *Balance

	config.DataBase.FirstOrCreate(&balance, Balance{MemberID: m.ID, AssetID: asset.ID})

	return balance
}

func (m *Member) IsAdmin() bool {
	return m.Role == "admin" || m.Role == "superadmin"
}

// LiquidityMember is the exchange-operated account fills settle against.
func LiquidityMember() (*Member, error) {
	var member *Member

	result := config.DataBase.First(&member, "role = ?", RoleLiquidity)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	return member, nil
}
