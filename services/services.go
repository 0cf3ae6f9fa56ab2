package services

import (
	"github.com/zsmartex/vaultex/ledger"
	"github.com/zsmartex/vaultex/trading"
	"github.com/zsmartex/vaultex/wallet"
)

// Process-wide service singletons. The ledger store must be shared:
// its guard registry is what serializes balance mutations, so a second
// store instance would defeat the per-row exclusion.
var (
	Ledger  *ledger.Store
	Wallet  *wallet.Processor
	Trading *trading.Settlement
)

func Initialize() {
	Ledger = ledger.NewStore()
	Wallet = wallet.NewProcessor(Ledger)
	Trading = trading.NewSettlement(Ledger)
}
