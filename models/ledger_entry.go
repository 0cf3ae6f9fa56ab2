package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fund kinds a ledger entry can move value between.
const (
	FundAvailable = "available"
	FundLocked    = "locked"
)

// LedgerEntry is the immutable audit trail of every balance mutation.
// Rows are only ever created, never updated or deleted.
type LedgerEntry struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	MemberID      int64           `json:"member_id"`
	AssetID       string          `json:"asset_id"`
	Fund          string          `json:"fund"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   int64           `json:"reference_id"`
	Debit         decimal.Decimal `json:"debit" gorm:"default:0.0"`
	Credit        decimal.Decimal `json:"credit" gorm:"default:0.0"`
	CreatedAt     time.Time       `json:"created_at"`
}

func LedgerCredit(tx *gorm.DB, memberID int64, assetID string, amount decimal.Decimal, fund string, ref Reference) error {
	entry := LedgerEntry{
		MemberID:      memberID,
		AssetID:       assetID,
		Fund:          fund,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		Credit:        amount,
	}

	return tx.Create(&entry).Error
}

func LedgerDebit(tx *gorm.DB, memberID int64, assetID string, amount decimal.Decimal, fund string, ref Reference) error {
	entry := LedgerEntry{
		MemberID:      memberID,
		AssetID:       assetID,
		Fund:          fund,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		Debit:         amount,
	}

	return tx.Create(&entry).Error
}

// LedgerTransfer records a movement between the member's own funds, one
// debit on the source fund and one credit on the destination fund.
func LedgerTransfer(tx *gorm.DB, memberID int64, assetID string, amount decimal.Decimal, fromFund, toFund string, ref Reference) error {
	if err := LedgerDebit(tx, memberID, assetID, amount, fromFund, ref); err != nil {
		return err
	}

	return LedgerCredit(tx, memberID, assetID, amount, toFund, ref)
}
