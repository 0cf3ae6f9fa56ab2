package ledger

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/models"
)

var (
	setupOnce sync.Once
	setupErr  error
	fixtureID int64
)

func requireDatabase(t *testing.T) {
	t.Helper()

	if len(os.Getenv("DATABASE_HOST")) == 0 {
		t.Skip("set DATABASE_* to run database-backed tests")
	}

	setupOnce.Do(func() {
		config.NewLoggerService()
		if setupErr = config.ConnectDatabase(); setupErr != nil {
			return
		}

		setupErr = config.DataBase.AutoMigrate(
			&models.Member{},
			&models.Asset{},
			&models.Balance{},
			&models.Transaction{},
			&models.Order{},
			&models.Fill{},
			&models.LedgerEntry{},
		)
	})

	if setupErr != nil {
		t.Fatalf("database setup failed: %v", setupErr)
	}
}

func nextFixture() string {
	return fmt.Sprintf("%d%d", time.Now().UnixNano(), atomic.AddInt64(&fixtureID, 1))
}

func createMember(t *testing.T) *models.Member {
	t.Helper()

	member := &models.Member{
		UID:   "IDTEST" + nextFixture(),
		Email: "ledger" + nextFixture() + "@test.local",
		Role:  "member",
		State: "active",
	}
	require.NoError(t, config.DataBase.Create(member).Error)

	return member
}

func testAssetID() string {
	return "ast" + nextFixture()
}

func TestStore_GetBalanceCreatesZeroRow(t *testing.T) {
	requireDatabase(t)

	store := NewStore()
	member := createMember(t)
	assetID := testAssetID()

	balance, err := store.GetBalance(member.ID, assetID)
	require.NoError(t, err)
	assert.True(t, balance.Available.IsZero())
	assert.True(t, balance.Locked.IsZero())

	again, err := store.GetBalance(member.ID, assetID)
	require.NoError(t, err)
	assert.Equal(t, balance.ID, again.ID)
}

func TestStore_LockUnlockConservation(t *testing.T) {
	requireDatabase(t)

	store := NewStore()
	member := createMember(t)
	assetID := testAssetID()
	ref := models.Reference{ID: member.ID, Type: "Test"}

	require.NoError(t, store.Credit(member.ID, assetID, decimal.NewFromInt(100), ref))

	require.NoError(t, store.Lock(member.ID, assetID, decimal.NewFromInt(40), ref))

	balance, err := store.GetBalance(member.ID, assetID)
	require.NoError(t, err)
	assert.True(t, balance.Available.Equal(decimal.NewFromInt(60)))
	assert.True(t, balance.Locked.Equal(decimal.NewFromInt(40)))
	assert.True(t, balance.Amount().Equal(decimal.NewFromInt(100)))

	require.NoError(t, store.Unlock(member.ID, assetID, decimal.NewFromInt(40), ref))

	balance, err = store.GetBalance(member.ID, assetID)
	require.NoError(t, err)
	assert.True(t, balance.Available.Equal(decimal.NewFromInt(100)))
	assert.True(t, balance.Locked.IsZero())

	var entries int64
	config.DataBase.Model(&models.LedgerEntry{}).
		Where("member_id = ? AND asset_id = ?", member.ID, assetID).Count(&entries)
	assert.Equal(t, int64(5), entries)
}

func TestStore_LockInsufficient(t *testing.T) {
	requireDatabase(t)

	store := NewStore()
	member := createMember(t)
	assetID := testAssetID()
	ref := models.Reference{ID: member.ID, Type: "Test"}

	require.NoError(t, store.Credit(member.ID, assetID, decimal.NewFromInt(100), ref))

	err := store.Lock(member.ID, assetID, decimal.NewFromInt(101), ref)
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	balance, err := store.GetBalance(member.ID, assetID)
	require.NoError(t, err)
	assert.True(t, balance.Available.Equal(decimal.NewFromInt(100)))
	assert.True(t, balance.Locked.IsZero())
}

func TestStore_UnlockExcess(t *testing.T) {
	requireDatabase(t)

	store := NewStore()
	member := createMember(t)
	assetID := testAssetID()
	ref := models.Reference{ID: member.ID, Type: "Test"}

	require.NoError(t, store.Credit(member.ID, assetID, decimal.NewFromInt(10), ref))
	require.NoError(t, store.Lock(member.ID, assetID, decimal.NewFromInt(5), ref))

	err := store.Unlock(member.ID, assetID, decimal.NewFromInt(6), ref)
	assert.ErrorIs(t, err, models.ErrInvariantViolation)
}

func TestStore_Settle(t *testing.T) {
	requireDatabase(t)

	store := NewStore()
	debtor := createMember(t)
	creditor := createMember(t)
	assetID := testAssetID()
	ref := models.Reference{ID: debtor.ID, Type: "Test"}

	require.NoError(t, store.Credit(debtor.ID, assetID, decimal.NewFromInt(100), ref))
	require.NoError(t, store.Lock(debtor.ID, assetID, decimal.NewFromInt(30), ref))

	require.NoError(t, store.Settle(debtor.ID, creditor.ID, assetID, decimal.NewFromInt(30), ref))

	debit, err := store.GetBalance(debtor.ID, assetID)
	require.NoError(t, err)
	assert.True(t, debit.Available.Equal(decimal.NewFromInt(70)))
	assert.True(t, debit.Locked.IsZero())

	credit, err := store.GetBalance(creditor.ID, assetID)
	require.NoError(t, err)
	assert.True(t, credit.Available.Equal(decimal.NewFromInt(30)))
}

// A settle whose debit side lacks locked funds must leave the credit
// side untouched: both legs commit or neither does.
func TestStore_SettleAtomicity(t *testing.T) {
	requireDatabase(t)

	store := NewStore()
	debtor := createMember(t)
	creditor := createMember(t)
	assetID := testAssetID()
	ref := models.Reference{ID: debtor.ID, Type: "Test"}

	require.NoError(t, store.Credit(debtor.ID, assetID, decimal.NewFromInt(100), ref))
	require.NoError(t, store.Lock(debtor.ID, assetID, decimal.NewFromInt(10), ref))

	err := store.Settle(debtor.ID, creditor.ID, assetID, decimal.NewFromInt(30), ref)
	assert.ErrorIs(t, err, models.ErrInvariantViolation)

	credit, err := store.GetBalance(creditor.ID, assetID)
	require.NoError(t, err)
	assert.True(t, credit.Available.IsZero())

	debit, err := store.GetBalance(debtor.ID, assetID)
	require.NoError(t, err)
	assert.True(t, debit.Locked.Equal(decimal.NewFromInt(10)))
}
