package trading

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zsmartex/vaultex/config"
	"github.com/zsmartex/vaultex/ledger"
	"github.com/zsmartex/vaultex/models"
	"github.com/zsmartex/vaultex/types"
)

// Settlement implements the order lifecycle: funds are locked at
// placement, moved across both sides' ledgers on each fill and released
// on cancel. Fills execute against the exchange liquidity account;
// matching itself is left to an external engine feeding the fills
// subject.
type Settlement struct {
	store *ledger.Store
}

func NewSettlement(store *ledger.Store) *Settlement {
	return &Settlement{
		store: store,
	}
}

// PlaceOrder validates the pair, locks the outgoing funds and creates
// the order in one atomic step.
func (s *Settlement) PlaceOrder(member *models.Member, order *models.Order) (*models.Order, error) {
	if !order.Amount.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	if order.Kind == types.KindLimit && !order.Price.Valid {
		return nil, models.ErrMissingPrice
	}

	base, quote, err := s.pairAssets(order)
	if err != nil {
		return nil, err
	}

	locked, err := order.ComputeLocked(base, quote)
	if err != nil {
		return nil, err
	}

	order.MemberID = member.ID
	order.Locked = locked
	order.OriginLocked = locked

	err = s.store.Atomic(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return s.store.LockTx(tx, member.ID, order.LockAssetID(), locked, models.Reference{
			ID:   order.ID,
			Type: "Order",
		})
	}, s.store.Guard(member.ID, order.LockAssetID()))

	if err != nil {
		return nil, err
	}

	return order, nil
}

// Fill settles qty of the order at execPrice against the liquidity
// member. The buyer's locked quote moves to the seller's available and
// the seller's base inventory moves the other way, all in one
// transaction. A fill that completes the order releases whatever locked
// surplus the limit price left behind.
func (s *Settlement) Fill(orderID int64, qty, execPrice decimal.Decimal) (*models.Order, error) {
	if !qty.IsPositive() || !execPrice.IsPositive() {
		return nil, models.ErrInvalidAmount
	}

	order, err := FindOrder(orderID)
	if err != nil {
		return nil, err
	}

	liquidity, err := models.LiquidityMember()
	if err != nil {
		return nil, err
	}

	err = s.store.Atomic(func(tx *gorm.DB) error {
		order, err = orderForUpdate(tx, order.ID)
		if err != nil {
			return err
		}

		if qty.GreaterThan(order.RemainingAmount()) {
			return models.ErrOverfill
		}

		total := qty.Mul(execPrice)
		ref := models.Reference{ID: order.ID, Type: "Fill"}

		var outcome decimal.Decimal
		if order.Side == types.SideBuy {
			outcome = total
		} else {
			outcome = qty
		}

		// The order's own locked pot has to cover this execution; the
		// row-level check alone would let one order spend another's
		// locked funds.
		if outcome.GreaterThan(order.Locked) {
			return models.ErrInsufficientFunds
		}

		if order.Side == types.SideBuy {
			// Buyer pays quote out of locked, receives base from
			// the liquidity inventory.
			if err := s.store.SettleTx(tx, order.MemberID, liquidity.ID, order.QuoteAssetID, total, ref); err != nil {
				return err
			}
			if err := s.store.LockTx(tx, liquidity.ID, order.BaseAssetID, qty, ref); err != nil {
				return err
			}
			if err := s.store.SettleTx(tx, liquidity.ID, order.MemberID, order.BaseAssetID, qty, ref); err != nil {
				return err
			}
		} else {
			if err := s.store.SettleTx(tx, order.MemberID, liquidity.ID, order.BaseAssetID, qty, ref); err != nil {
				return err
			}
			if err := s.store.LockTx(tx, liquidity.ID, order.QuoteAssetID, total, ref); err != nil {
				return err
			}
			if err := s.store.SettleTx(tx, liquidity.ID, order.MemberID, order.QuoteAssetID, total, ref); err != nil {
				return err
			}
		}

		order.FilledAmount = order.FilledAmount.Add(qty)
		order.Locked = order.Locked.Sub(outcome)
		order.FillsCount += 1

		// A buy below the limit price leaves locked surplus behind on
		// the final fill.
		if order.Status() == types.OrderFilled && order.Locked.IsPositive() {
			if err := s.store.UnlockTx(tx, order.MemberID, order.LockAssetID(), order.Locked, ref); err != nil {
				return err
			}
			order.Locked = decimal.Zero
		}

		fill := &models.Fill{
			OrderID:      order.ID,
			MemberID:     order.MemberID,
			BaseAssetID:  order.BaseAssetID,
			QuoteAssetID: order.QuoteAssetID,
			Side:         order.Side,
			Amount:       qty,
			Price:        execPrice,
			Total:        total,
		}
		if err := tx.Create(fill).Error; err != nil {
			return err
		}

		if err := tx.Save(order).Error; err != nil {
			return err
		}

		fill.WriteToInflux()

		return nil
	},
		s.store.Guard(order.MemberID, order.BaseAssetID),
		s.store.Guard(order.MemberID, order.QuoteAssetID),
		s.store.Guard(liquidity.ID, order.BaseAssetID),
		s.store.Guard(liquidity.ID, order.QuoteAssetID),
	)

	if err != nil {
		return nil, err
	}

	return order, nil
}

// Cancel releases the unfilled locked portion and marks the order
// cancelled. Terminal orders refuse the transition.
func (s *Settlement) Cancel(orderID int64) (*models.Order, error) {
	order, err := FindOrder(orderID)
	if err != nil {
		return nil, err
	}

	err = s.store.Atomic(func(tx *gorm.DB) error {
		order, err = orderForUpdate(tx, order.ID)
		if err != nil {
			return err
		}

		if order.Locked.IsPositive() {
			ref := models.Reference{ID: order.ID, Type: "Order"}
			if err := s.store.UnlockTx(tx, order.MemberID, order.LockAssetID(), order.Locked, ref); err != nil {
				return err
			}
			order.Locked = decimal.Zero
		}

		order.Cancelled = true

		return tx.Save(order).Error
	}, s.store.Guard(order.MemberID, order.LockAssetID()))

	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *Settlement) pairAssets(order *models.Order) (*models.Asset, *models.Asset, error) {
	if order.BaseAssetID == order.QuoteAssetID {
		return nil, nil, models.ErrInvalidPair
	}

	base, err := models.FindAsset(order.BaseAssetID)
	if err != nil || !base.Active {
		return nil, nil, models.ErrInvalidPair
	}

	quote, err := models.FindAsset(order.QuoteAssetID)
	if err != nil || !quote.Active {
		return nil, nil, models.ErrInvalidPair
	}

	return base, quote, nil
}

func FindOrder(id int64) (*models.Order, error) {
	var order *models.Order

	result := config.DataBase.First(&order, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	return order, nil
}

// orderForUpdate re-reads the order under FOR UPDATE and refuses
// terminal orders, so concurrent fills and cancels serialize on the row.
func orderForUpdate(tx *gorm.DB, id int64) (*models.Order, error) {
	var order *models.Order

	result := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "orders"}}).
		Where("id = ?", id).First(&order)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	} else if result.Error != nil {
		return nil, result.Error
	}

	if order.IsTerminal() {
		return nil, models.ErrAlreadyTerminal
	}

	return order, nil
}
