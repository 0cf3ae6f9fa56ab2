package wallet

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/ledger"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/types"
)

// Processor owns the deposit/withdrawal lifecycle. The status change and
// its balance effect always commit in the same transaction, under the
// ledger guard of the (member, asset) involved, so a transaction row can
// never disagree with the funds it moved.
type Processor struct {
	store *ledger.Store
}

func NewProcessor(store *ledger.Store) *Processor {
	return &Processor{
		store: store,
	}
}

// RequestDeposit records a pending deposit. Balances are untouched:
// funds arrive externally and are credited only on admin approval.
func (p *Processor) RequestDeposit(member *models.Member, asset *models.Asset, amount decimal.Decimal, walletAddress string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	transaction := &models.Transaction{
		MemberID:      member.ID,
		AssetID:       asset.ID,
		Kind:          types.KindDeposit,
		Amount:        amount,
		Status:        types.TransactionPending,
		WalletAddress: sql.NullString{String: walletAddress, Valid: len(walletAddress) > 0},
	}

	if err := config.DataBase.Create(transaction).Error; err != nil {
		return nil, storageErr(err)
	}

	return transaction, nil
}

// RequestWithdrawal locks the requested amount and records a pending
// withdrawal in one atomic step, so the same balance cannot back two
// concurrent withdrawal requests.
func (p *Processor) RequestWithdrawal(member *models.Member, asset *models.Asset, amount decimal.Decimal, walletAddress string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	transaction := &models.Transaction{
		MemberID:      member.ID,
		AssetID:       asset.ID,
		Kind:          types.KindWithdrawal,
		Amount:        amount,
		Status:        types.TransactionPending,
		WalletAddress: sql.NullString{String: walletAddress, Valid: len(walletAddress) > 0},
	}

	err := p.store.Atomic(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}

		return p.store.LockTx(tx, member.ID, asset.ID, amount, models.Reference{
			ID:   transaction.ID,
			Type: "Withdrawal",
		})
	}, p.store.Guard(member.ID, asset.ID))

	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// Approve finalizes a pending transaction. Approving a deposit credits
// available funds; approving a withdrawal releases the locked amount out
// of the exchange; rejecting a withdrawal unlocks it back. The first
// terminal transition wins, every later attempt gets AlreadyFinalized.
func (p *Processor) Approve(admin *models.Member, tid uuid.UUID, decision types.ApproveDecision) (*models.Transaction, error) {
	transaction, err := FindTransaction(tid)
	if err != nil {
		return nil, err
	}

	err = p.store.Atomic(func(tx *gorm.DB) error {
		transaction, err = transactionForUpdate(tx, transaction.ID)
		if err != nil {
			return err
		}

		ref := models.Reference{ID: transaction.ID, Type: referenceType(transaction)}

		if decision == types.DecisionApprove {
			if transaction.IsDeposit() {
				if err := p.store.CreditTx(tx, transaction.MemberID, transaction.AssetID, transaction.Amount, ref); err != nil {
					return err
				}
			} else {
				if err := p.store.DebitLockedTx(tx, transaction.MemberID, transaction.AssetID, transaction.Amount, ref); err != nil {
					return err
				}
			}

			transaction.Status = types.TransactionCompleted
		} else {
			if !transaction.IsDeposit() {
				if err := p.store.UnlockTx(tx, transaction.MemberID, transaction.AssetID, transaction.Amount, ref); err != nil {
					return err
				}
			}

			transaction.Status = types.TransactionRejected
		}

		transaction.ApprovedBy = sql.NullInt64{Int64: admin.ID, Valid: true}
		transaction.ApprovedAt = sql.NullTime{Time: time.Now(), Valid: true}

		return tx.Save(transaction).Error
	}, p.store.Guard(transaction.MemberID, transaction.AssetID))

	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// Cancel lets the owner withdraw a request before any admin action.
func (p *Processor) Cancel(member *models.Member, tid uuid.UUID) (*models.Transaction, error) {
	transaction, err := FindTransaction(tid)
	if err != nil {
		return nil, err
	}

	if transaction.MemberID != member.ID {
		return nil, models.ErrNotFound
	}

	err = p.store.Atomic(func(tx *gorm.DB) error {
		transaction, err = transactionForUpdate(tx, transaction.ID)
		if err != nil {
			return err
		}

		if !transaction.IsDeposit() {
			ref := models.Reference{ID: transaction.ID, Type: referenceType(transaction)}
			if err := p.store.UnlockTx(tx, transaction.MemberID, transaction.AssetID, transaction.Amount, ref); err != nil {
				return err
			}
		}

		transaction.Status = types.TransactionCancelled

		return tx.Save(transaction).Error
	}, p.store.Guard(transaction.MemberID, transaction.AssetID))

	if err != nil {
		return nil, err
	}

	return transaction, nil
}

func FindTransaction(tid uuid.UUID) (*models.Transaction, error) {
	var transaction *models.Transaction

	result := config.DataBase.First(&transaction, "tid = ?", tid)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	return transaction, nil
}

// transactionForUpdate re-reads the row under FOR UPDATE and verifies it
// is still pending. Concurrent approve/reject/cancel races resolve here.
func transactionForUpdate(tx *gorm.DB, id int64) (*models.Transaction, error) {
	var transaction *models.Transaction

	result := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "transactions"}}).
		Where("id = ?", id).First(&transaction)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	if !transaction.IsPending() {
		return nil, models.ErrAlreadyFinalized
	}

	return transaction, nil
}

// storageErr keeps the underlying cause while staying matchable as
// StorageUnavailable, mirroring the ledger store's wrapping.
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
}

func referenceType(transaction *models.Transaction) string {
	if transaction.IsDeposit() {
		return "Deposit"
	}

	return "Withdrawal"
}
