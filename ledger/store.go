package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/models"
)

// Store is the single authority over balance rows. Nothing else in the
// codebase writes available/locked: the transaction processor and order
// settlement compose the *Tx operations inside Store.Atomic so their
// status changes commit together with the balance mutation.
//
// Every mutation is serialized two ways: a per-(member, asset) guard
// taken for the whole operation, and a SELECT ... FOR UPDATE on the
// balance row inside the database transaction.
type Store struct {
	guards *guardRegistry
}

func NewStore() *Store {
	return &Store{
		guards: newGuardRegistry(),
	}
}

func (s *Store) Guard(memberID int64, assetID string) GuardKey {
	return GuardKey{MemberID: memberID, AssetID: assetID}
}

// Atomic acquires the given guards, runs fn in one database transaction
// and releases on every exit path. Either the whole mutation committed
// or none of it did. Non-domain failures surface as StorageUnavailable.
func (s *Store) Atomic(fn func(tx *gorm.DB) error, keys ...GuardKey) error {
	release := s.guards.acquire(keys...)
	defer release()

	if err := config.DataBase.Transaction(fn); err != nil {
		return wrapStorageErr(err)
	}

	return nil
}

func wrapStorageErr(err error) error {
	var domainErr *models.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
}

// GetBalance returns the member's balance row for the asset, creating a
// zero row if absent. Creation is idempotent under the unique
// (member, asset) index.
func (s *Store) GetBalance(memberID int64, assetID string) (*models.Balance, error) {
	var balance *models.Balance

	result := config.DataBase.FirstOrCreate(&balance, models.Balance{MemberID: memberID, AssetID: assetID})
	if result.Error != nil {
		return nil, wrapStorageErr(result.Error)
	}

	return balance, nil
}

// BalanceForUpdate loads the balance row under a row-level write lock.
func BalanceForUpdate(tx *gorm.DB, memberID int64, assetID string) (*models.Balance, error) {
	var balance *models.Balance

	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "balances"}}).
		FirstOrCreate(&balance, models.Balance{MemberID: memberID, AssetID: assetID}).Error
	if err != nil {
		return nil, err
	}

	return balance, nil
}

// LockTx moves amount from available to locked.
func (s *Store) LockTx(tx *gorm.DB, memberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	balance, err := BalanceForUpdate(tx, memberID, assetID)
	if err != nil {
		return err
	}

	if err := balance.LockFunds(tx, amount); err != nil {
		return err
	}

	return models.LedgerTransfer(tx, memberID, assetID, amount, models.FundAvailable, models.FundLocked, ref)
}

// UnlockTx moves amount from locked back to available.
func (s *Store) UnlockTx(tx *gorm.DB, memberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	balance, err := BalanceForUpdate(tx, memberID, assetID)
	if err != nil {
		return err
	}

	if err := balance.UnlockFunds(tx, amount); err != nil {
		return err
	}

	return models.LedgerTransfer(tx, memberID, assetID, amount, models.FundLocked, models.FundAvailable, ref)
}

// CreditTx increases available. The only way a holding grows: deposit
// approval and the credit side of a settlement.
func (s *Store) CreditTx(tx *gorm.DB, memberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	balance, err := BalanceForUpdate(tx, memberID, assetID)
	if err != nil {
		return err
	}

	if err := balance.PlusFunds(tx, amount); err != nil {
		return err
	}

	return models.LedgerCredit(tx, memberID, assetID, amount, models.FundAvailable, ref)
}

// DebitLockedTx removes amount from locked without crediting available,
// for funds that actually leave the member (withdrawal completion, the
// debit side of a settlement).
func (s *Store) DebitLockedTx(tx *gorm.DB, memberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	balance, err := BalanceForUpdate(tx, memberID, assetID)
	if err != nil {
		return err
	}

	if err := balance.UnlockAndSubFunds(tx, amount); err != nil {
		return err
	}

	return models.LedgerDebit(tx, memberID, assetID, amount, models.FundLocked, ref)
}

// SettleTx moves amount of asset from the debit member's locked funds
// into the credit member's available funds.
func (s *Store) SettleTx(tx *gorm.DB, debitMemberID, creditMemberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	if err := s.DebitLockedTx(tx, debitMemberID, assetID, amount, ref); err != nil {
		return err
	}

	return s.CreditTx(tx, creditMemberID, assetID, amount, ref)
}

// Lock reserves amount of the member's available funds.
func (s *Store) Lock(memberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	return s.Atomic(func(tx *gorm.DB) error {
		return s.LockTx(tx, memberID, assetID, amount, ref)
	}, s.Guard(memberID, assetID))
}

// Credit increases the member's available funds.
func (s *Store) Credit(memberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	return s.Atomic(func(tx *gorm.DB) error {
		return s.CreditTx(tx, memberID, assetID, amount, ref)
	}, s.Guard(memberID, assetID))
}

// Unlock releases a previously locked amount.
func (s *Store) Unlock(memberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	return s.Atomic(func(tx *gorm.DB) error {
		return s.UnlockTx(tx, memberID, assetID, amount, ref)
	}, s.Guard(memberID, assetID))
}

// Settle atomically debits one member's locked funds and credits the
// other's available funds. Both sides commit or neither does.
func (s *Store) Settle(debitMemberID, creditMemberID int64, assetID string, amount decimal.Decimal, ref models.Reference) error {
	return s.Atomic(func(tx *gorm.DB) error {
		return s.SettleTx(tx, debitMemberID, creditMemberID, assetID, amount, ref)
	}, s.Guard(debitMemberID, assetID), s.Guard(creditMemberID, assetID))
}
