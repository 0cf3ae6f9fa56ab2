package trading

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
	"github.com/zsmartex/vaultex/ledger"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/types"
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
		Email: "trading" + nextFixture() + "@test.local",
		Role:  "member",
		State: "active",
	}
	require.NoError(t, config.DataBase.Create(member).Error)

	return member
}

// liquidityMember reuses the single exchange liquidity account across
// tests, the way the seeder provisions it.
func liquidityMember(t *testing.T) *models.Member {
	t.Helper()

	var member *models.Member
	result := config.DataBase.Where(models.Member{Role: models.RoleLiquidity}).
		Assign(models.Member{
			UID:   "IDLIQUIDITY0001",
			Email: "liquidity@test.local",
			State: "active",
		}).FirstOrCreate(&member)
	require.NoError(t, result.Error)

	return member
}

func createAsset(t *testing.T, price decimal.Decimal) *models.Asset {
	t.Helper()

	id := "ast" + nextFixture()
	asset := &models.Asset{
		ID:        id,
		Symbol:    id,
		Name:      "Test Asset",
		Price:     price,
		PriceFeed: types.FeedManual,
		Active:    true,
	}
	require.NoError(t, config.DataBase.Create(asset).Error)

	return asset
}

func assertBalance(t *testing.T, store *ledger.Store, memberID int64, assetID string, available, locked decimal.Decimal) {
	t.Helper()

	balance, err := store.GetBalance(memberID, assetID)
	require.NoError(t, err)
	assert.True(t, balance.Available.Equal(available), "available %s, want %s", balance.Available, available)
	assert.True(t, balance.Locked.Equal(locked), "locked %s, want %s", balance.Locked, locked)
}

func limitBuy(base, quote *models.Asset, amount, price int64) *models.Order {
	return &models.Order{
		BaseAssetID:  base.ID,
		QuoteAssetID: quote.ID,
		Kind:         types.KindLimit,
		Side:         types.SideBuy,
		Amount:       decimal.NewFromInt(amount),
		Price:        decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
}

func TestSettlement_PlaceOrderLocksQuote(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, quote.ID, decimal.NewFromInt(100), models.Reference{ID: member.ID, Type: "Test"}))

	order, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	require.NoError(t, err)
	assert.Equal(t, types.OrderOpen, order.Status())
	assert.True(t, order.Locked.Equal(decimal.NewFromInt(100)))

	assertBalance(t, store, member.ID, quote.ID, decimal.Zero, decimal.NewFromInt(100))

	order, err = settlement.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, types.OrderCancelled, order.Status())

	assertBalance(t, store, member.ID, quote.ID, decimal.NewFromInt(100), decimal.Zero)
}

func TestSettlement_PlaceOrderValidation(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	_, err := settlement.PlaceOrder(member, limitBuy(base, quote, 0, 100))
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	order := limitBuy(base, quote, 1, 100)
	order.Price = decimal.NullDecimal{}
	_, err = settlement.PlaceOrder(member, order)
	assert.ErrorIs(t, err, models.ErrMissingPrice)

	order = limitBuy(base, base, 1, 100)
	_, err = settlement.PlaceOrder(member, order)
	assert.ErrorIs(t, err, models.ErrInvalidPair)

	order = limitBuy(base, quote, 1, 100)
	order.QuoteAssetID = "missing" + nextFixture()
	_, err = settlement.PlaceOrder(member, order)
	assert.ErrorIs(t, err, models.ErrInvalidPair)
}

func TestSettlement_PlaceOrderRejectsInactiveAsset(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, config.DataBase.Model(quote).Update("active", false).Error)

	_, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	assert.ErrorIs(t, err, models.ErrInvalidPair)
}

func TestSettlement_PlaceOrderInsufficientFunds(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, quote.ID, decimal.NewFromInt(50), models.Reference{ID: member.ID, Type: "Test"}))

	_, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	// The rejected order must not survive the rollback.
	var count int64
	config.DataBase.Model(&models.Order{}).
		Where("member_id = ?", member.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSettlement_PartialFill(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	liquidity := liquidityMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, quote.ID, decimal.NewFromInt(100), models.Reference{ID: member.ID, Type: "Test"}))
	require.NoError(t, store.Credit(liquidity.ID, base.ID, decimal.NewFromInt(10), models.Reference{ID: liquidity.ID, Type: "Seed"}))

	order, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	require.NoError(t, err)

	half := decimal.NewFromFloat(0.5)
	order, err = settlement.Fill(order.ID, half, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.Equal(t, types.OrderPartial, order.Status())
	assert.True(t, order.FilledAmount.Equal(half))
	assert.True(t, order.Locked.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(1), order.FillsCount)

	// Buyer: half the quote lock spent, half a base unit received.
	assertBalance(t, store, member.ID, quote.ID, decimal.Zero, decimal.NewFromInt(50))
	assertBalance(t, store, member.ID, base.ID, half, decimal.Zero)

	// Liquidity: the mirror image.
	assertBalance(t, store, liquidity.ID, quote.ID, decimal.NewFromInt(50), decimal.Zero)
	assertBalance(t, store, liquidity.ID, base.ID, decimal.NewFromFloat(9.5), decimal.Zero)

	var fills int64
	config.DataBase.Model(&models.Fill{}).Where("order_id = ?", order.ID).Count(&fills)
	assert.Equal(t, int64(1), fills)
}

func TestSettlement_FillBelowLimitReleasesSurplus(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	liquidity := liquidityMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, quote.ID, decimal.NewFromInt(100), models.Reference{ID: member.ID, Type: "Test"}))
	require.NoError(t, store.Credit(liquidity.ID, base.ID, decimal.NewFromInt(10), models.Reference{ID: liquidity.ID, Type: "Seed"}))

	order, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	require.NoError(t, err)

	// Executes at 90 against a 100 lock: the 10 surplus comes back.
	order, err = settlement.Fill(order.ID, decimal.NewFromInt(1), decimal.NewFromInt(90))
	require.NoError(t, err)

	assert.Equal(t, types.OrderFilled, order.Status())
	assert.True(t, order.Locked.IsZero())

	assertBalance(t, store, member.ID, quote.ID, decimal.NewFromInt(10), decimal.Zero)
	assertBalance(t, store, member.ID, base.ID, decimal.NewFromInt(1), decimal.Zero)
}

func TestSettlement_SellFill(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	liquidity := liquidityMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, base.ID, decimal.NewFromInt(2), models.Reference{ID: member.ID, Type: "Test"}))
	require.NoError(t, store.Credit(liquidity.ID, quote.ID, decimal.NewFromInt(500), models.Reference{ID: liquidity.ID, Type: "Seed"}))

	order := limitBuy(base, quote, 2, 100)
	order.Side = types.SideSell

	order, err := settlement.PlaceOrder(member, order)
	require.NoError(t, err)
	assert.True(t, order.Locked.Equal(decimal.NewFromInt(2)))

	order, err = settlement.Fill(order.ID, decimal.NewFromInt(2), decimal.NewFromInt(110))
	require.NoError(t, err)
	assert.Equal(t, types.OrderFilled, order.Status())

	assertBalance(t, store, member.ID, base.ID, decimal.Zero, decimal.Zero)
	assertBalance(t, store, member.ID, quote.ID, decimal.NewFromInt(220), decimal.Zero)
}

func TestSettlement_Overfill(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	liquidity := liquidityMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, quote.ID, decimal.NewFromInt(100), models.Reference{ID: member.ID, Type: "Test"}))
	require.NoError(t, store.Credit(liquidity.ID, base.ID, decimal.NewFromInt(10), models.Reference{ID: liquidity.ID, Type: "Seed"}))

	order, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	require.NoError(t, err)

	_, err = settlement.Fill(order.ID, decimal.NewFromInt(2), decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrOverfill)

	assertBalance(t, store, member.ID, quote.ID, decimal.Zero, decimal.NewFromInt(100))
}

func TestSettlement_FillAboveLockedPot(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	liquidity := liquidityMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, quote.ID, decimal.NewFromInt(100), models.Reference{ID: member.ID, Type: "Test"}))
	require.NoError(t, store.Credit(liquidity.ID, base.ID, decimal.NewFromInt(10), models.Reference{ID: liquidity.ID, Type: "Seed"}))

	order, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	require.NoError(t, err)

	// Full qty at 150 needs 150 quote but only 100 is locked.
	_, err = settlement.Fill(order.ID, decimal.NewFromInt(1), decimal.NewFromInt(150))
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)

	assertBalance(t, store, member.ID, quote.ID, decimal.Zero, decimal.NewFromInt(100))
}

func TestSettlement_TerminalOrdersRefuse(t *testing.T) {
	requireDatabase(t)

	store := ledger.NewStore()
	settlement := NewSettlement(store)
	member := createMember(t)
	liquidity := liquidityMember(t)
	base := createAsset(t, decimal.NewFromInt(100))
	quote := createAsset(t, decimal.NewFromInt(1))

	require.NoError(t, store.Credit(member.ID, quote.ID, decimal.NewFromInt(200), models.Reference{ID: member.ID, Type: "Test"}))
	require.NoError(t, store.Credit(liquidity.ID, base.ID, decimal.NewFromInt(10), models.Reference{ID: liquidity.ID, Type: "Seed"}))

	cancelled, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	require.NoError(t, err)
	_, err = settlement.Cancel(cancelled.ID)
	require.NoError(t, err)

	_, err = settlement.Fill(cancelled.ID, decimal.NewFromInt(1), decimal.NewFromInt(100))
	assert.ErrorIs(t, err, models.ErrAlreadyTerminal)
	_, err = settlement.Cancel(cancelled.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyTerminal)

	filled, err := settlement.PlaceOrder(member, limitBuy(base, quote, 1, 100))
	require.NoError(t, err)
	_, err = settlement.Fill(filled.ID, decimal.NewFromInt(1), decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = settlement.Cancel(filled.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyTerminal)
}
