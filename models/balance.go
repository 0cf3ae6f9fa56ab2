package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zsmartex/vaultex/config"
	"gorm.io/gorm"
)

// Balance is a per-member, per-asset ledger row. The available/locked
// split must never go negative; every mutator below refuses amounts that
// would break that and reports which invariant the caller was about to
// violate.
type Balance struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	MemberID  int64           `json:"member_id" gorm:"uniqueIndex:idx_balances_member_asset"`
	AssetID   string          `json:"asset_id" gorm:"uniqueIndex:idx_balances_member_asset"`
	Available decimal.Decimal `json:"available" gorm:"default:0.0" validate:"ValidateAvailable"`
	Locked    decimal.Decimal `json:"locked" gorm:"default:0.0" validate:"ValidateLocked"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (b Balance) ValidateAvailable(Available decimal.Decimal) bool {
	return Available.GreaterThanOrEqual(decimal.Zero)
}

func (b Balance) ValidateLocked(Locked decimal.Decimal) bool {
	return Locked.GreaterThanOrEqual(decimal.Zero)
}

// Amount is the total holding, available plus locked.
func (b *Balance) Amount() decimal.Decimal {
	return b.Available.Add(b.Locked)
}

// PlusFunds credits available. Used for deposit approval and the credit
// side of a settlement.
func (b *Balance) PlusFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	b.Available = b.Available.Add(amount)
	return tx.Save(b).Error
}

// LockFunds moves amount from available to locked.
func (b *Balance) LockFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(b.Available) {
		return ErrInsufficientFunds
	}

	b.Available = b.Available.Sub(amount)
	b.Locked = b.Locked.Add(amount)
	return tx.Save(b).Error
}

// UnlockFunds moves amount from locked back to available.
func (b *Balance) UnlockFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(b.Locked) {
		return ErrInvariantViolation
	}

	b.Available = b.Available.Add(amount)
	b.Locked = b.Locked.Sub(amount)
	return tx.Save(b).Error
}

// UnlockAndSubFunds removes amount from locked without crediting
// available. Used when locked funds actually leave the member: the debit
// side of a settlement and withdrawal completion.
func (b *Balance) UnlockAndSubFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(b.Locked) {
		return ErrInvariantViolation
	}

	b.Locked = b.Locked.Sub(amount)
	return tx.Save(b).Error
}

func (b *Balance) Member() *Member {
	var member *Member

	config.DataBase.First(&member, b.MemberID)

	return member
}

func (b *Balance) AfterSave(tx *gorm.DB) (err error) {
	b.TriggerEvent()

	return nil
}

func (b *Balance) TriggerEvent() {
	if config.Nats == nil {
		return
	}

	payload, _ := json.Marshal(b.ToJSON())
	config.Nats.Publish("vaultex.balances."+b.Member().UID, payload)
}

type BalanceJSON struct {
	Asset     string          `json:"asset"`
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
}

func (b *Balance) ToJSON() BalanceJSON {
	return BalanceJSON{
		Asset:     b.AssetID,
		Available: b.Available,
		Locked:    b.Locked,
	}
}
