package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/types"
	"gorm.io/gorm"
)

// Transaction is a deposit or withdrawal request. Rows are created
// pending; completed, rejected and cancelled are terminal and immutable.
type Transaction struct {
	ID            int64                   `json:"id" gorm:"primaryKey"`
	TID           uuid.UUID               `json:"tid" gorm:"default:gen_random_uuid()"`
	MemberID      int64                   `json:"member_id" validate:"required"`
	AssetID       string                  `json:"asset_id" validate:"required"`
	Kind          types.TransactionKind   `json:"kind" validate:"ValidateKind"`
	Amount        decimal.Decimal         `json:"amount" validate:"ValidateAmount"`
	Status        types.TransactionStatus `json:"status" gorm:"default:pending"`
	WalletAddress sql.NullString          `json:"wallet_address"`
	ApprovedBy    sql.NullInt64           `json:"approved_by"`
	ApprovedAt    sql.NullTime            `json:"approved_at"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func (t Transaction) ValidateKind(Kind types.TransactionKind) bool {
	return Kind == types.KindDeposit || Kind == types.KindWithdrawal
}

func (t Transaction) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive()
}

func (t *Transaction) IsPending() bool {
	return t.Status == types.TransactionPending
}

func (t *Transaction) IsDeposit() bool {
	return t.Kind == types.KindDeposit
}

func (t *Transaction) Member() *Member {
	var member *Member

	config.DataBase.First(&member, t.MemberID)

	return member
}

func (t *Transaction) AfterSave(tx *gorm.DB) (err error) {
	t.TriggerEvent()

	return nil
}

func (t *Transaction) TriggerEvent() {
	if config.Nats == nil {
		return
	}

	payload, _ := json.Marshal(t.ToJSON())
	config.Nats.Publish("vaultex.transactions."+t.Member().UID, payload)
}

type TransactionJSON struct {
	TID           uuid.UUID               `json:"tid"`
	Asset         string                  `json:"asset"`
	Kind          types.TransactionKind   `json:"kind"`
	Amount        decimal.Decimal         `json:"amount"`
	Status        types.TransactionStatus `json:"status"`
	WalletAddress string                  `json:"wallet_address,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func (t *Transaction) ToJSON() TransactionJSON {
	return TransactionJSON{
		TID:           t.TID,
		Asset:         t.AssetID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		Status:        t.Status,
		WalletAddress: t.WalletAddress.String,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
